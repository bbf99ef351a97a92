// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"strings"

	"textmark/internal/catalog"
	"textmark/internal/config"
)

// SplitList splits a comma separated flag value, dropping blanks
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// BuildCatalogSet resolves the configured catalogs and appends the catalog
// files given on the command line. Pass nil for cfg to use the built-ins only.
func BuildCatalogSet(cfg *config.Config, catalogFiles []string) ([]catalog.Catalog, error) {
	var base []catalog.Catalog
	if cfg == nil {
		base = catalog.Builtin()
	} else {
		resolved, err := cfg.ResolveCatalogs()
		if err != nil {
			return nil, err
		}
		base = resolved
	}

	extra, err := catalog.LoadFiles(catalogFiles)
	if err != nil {
		return nil, err
	}
	return catalog.Merge(base, extra)
}
