// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

// Observable is implemented by components that report timings under their
// own name
type Observable interface {
	GetComponentName() string
}

// StartComponent starts timing an operation of an observable component
func (o *StandardObserver) StartComponent(c Observable, operation, path string) func(success bool, metadata map[string]interface{}) {
	return o.StartTiming(c.GetComponentName(), operation, path)
}
