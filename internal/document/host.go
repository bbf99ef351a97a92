// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import "textmark/internal/marker"

// NewMarker wires a searcher and sink over doc into a marker
func NewMarker(doc *Document, search SearchOptions, opts ...marker.Option) *marker.Marker[Range] {
	return marker.New[Range](NewSearcher(doc, search), NewSink(doc), opts...)
}
