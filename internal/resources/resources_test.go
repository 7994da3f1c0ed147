// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package resources

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcevm/vmctl/internal/startup"
	"github.com/gcevm/vmctl/internal/testsupport"
)

func read(t *testing.T, p *Provider, uri string) mcp.TextResourceContents {
	t.Helper()
	for _, r := range p.Resources() {
		if r.Resource.URI != uri {
			continue
		}
		request := mcp.ReadResourceRequest{}
		request.Params.URI = uri
		contents, err := r.Handler(context.Background(), request)
		require.NoError(t, err)
		require.Len(t, contents, 1)
		text, ok := contents[0].(mcp.TextResourceContents)
		require.True(t, ok)
		return text
	}
	t.Fatalf("resource %s not available", uri)
	return mcp.TextResourceContents{}
}

func TestConfigResource(t *testing.T) {
	store := testsupport.NewStore(t, testsupport.Configs.Web)

	text := read(t, NewProvider(store, ""), ConfigURI)

	assert.Equal(t, "application/json", text.MIMEType)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &doc))
	assert.Equal(t, "demo", doc["vm_name"])
	assert.Equal(t, testsupport.TestProject, doc["project_id"])
}

func TestStartupScriptResource(t *testing.T) {
	store := testsupport.NewStore(t, testsupport.Configs.Web)

	text := read(t, NewProvider(store, ""), StartupScriptURI)

	assert.Equal(t, startup.Generate(startup.ParamsFrom(store)), text.Text)
}

func TestLogResourceOnlyWithLogFile(t *testing.T) {
	store := testsupport.NewStore(t, testsupport.Configs.Web)
	assert.Len(t, NewProvider(store, "").Resources(), 2)

	path := filepath.Join(t.TempDir(), "vm_management_20250101_000000.log")
	require.NoError(t, os.WriteFile(path, []byte("2025-01-01 00:00:00 INF started\n"), 0644))

	p := NewProvider(store, path)
	assert.Len(t, p.Resources(), 3)
	assert.Contains(t, read(t, p, LogURI).Text, "INF started")

	p.RegisterResources(server.NewMCPServer("vmctl", "test", server.WithResourceCapabilities(false, false)))
}
