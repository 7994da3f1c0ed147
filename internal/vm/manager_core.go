// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package vm drives a single Compute Engine instance through its lifecycle
package vm

import (
	"github.com/gcevm/vmctl/internal/core"
)

// Ensure Manager implements the core.LifecycleController interface
var _ core.LifecycleController = (*Manager)(nil)
