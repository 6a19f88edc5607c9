// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fetch-ld/ldengine/pebble"
	"github.com/fetch-ld/ldengine/utils"
)

// New opens the pebble store for [namespace] under [dataDir]. Store metrics
// are registered with [registerer] under the namespace.
func New(cfg pebble.Config, dataDir string, namespace string, registerer prometheus.Registerer) (*pebble.Database, error) {
	path, err := utils.InitSubDirectory(dataDir, namespace)
	if err != nil {
		return nil, err
	}
	return pebble.New(path, cfg, prometheus.WrapRegistererWithPrefix(namespace+"_", registerer))
}
