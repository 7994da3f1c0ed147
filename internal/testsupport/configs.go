// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package testsupport provides common test configurations and fakes
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gcevm/vmctl/internal/config"
)

// TestProject is the project every fixture document points at
const TestProject = "test-project"

// Configs provides standard configuration documents for tests. Each value is
// merged over the defaults when loaded.
var Configs = struct {
	// Minimal only names the instance and project
	Minimal map[string]any
	// Web is an ubuntu instance with the HTTP server enabled
	Web map[string]any
	// Private has HTTP disabled and monitoring enabled
	Private map[string]any
	// Stopped wants the instance TERMINATED after creation
	Stopped map[string]any
	// Preemptible is a preemptible debian instance
	Preemptible map[string]any
}{
	Minimal: map[string]any{
		config.KeyProjectID: TestProject,
		config.KeyVMName:    "demo",
	},
	Web: map[string]any{
		config.KeyProjectID:        TestProject,
		config.KeyVMName:           "demo",
		config.KeyOSChoice:         "ubuntu",
		config.KeyEnableHTTPServer: true,
		config.KeyRegion:           "us-west1",
	},
	Private: map[string]any{
		config.KeyProjectID:        TestProject,
		config.KeyVMName:           "private",
		config.KeyEnableHTTPServer: false,
		config.KeyEnableMonitoring: true,
		config.KeyTags:             []any{"internal"},
	},
	Stopped: map[string]any{
		config.KeyProjectID:     TestProject,
		config.KeyVMName:        "cold",
		config.KeyInstanceState: config.StateTerminated,
	},
	Preemptible: map[string]any{
		config.KeyProjectID:   TestProject,
		config.KeyVMName:      "spot",
		config.KeyOSChoice:    "debian",
		config.KeyPreemptible: true,
		config.KeyZone:        "europe-west1-b",
	},
}

// NewStore writes doc to a temporary config file and loads it
func NewStore(t *testing.T, doc map[string]any) *config.Store {
	t.Helper()

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), config.DefaultConfigFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	store, err := config.Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	return store
}

// ReadDocument returns the document currently on disk for store
func ReadDocument(t *testing.T, store *config.Store) map[string]any {
	t.Helper()

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}
	return doc
}
