// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// ResponseHelper provides common response formatting functionality
type ResponseHelper struct {
	now func() time.Time
}

// NewResponseHelper creates a new response helper
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{now: time.Now}
}

// MarshalSuccessResponse marshals a response map to JSON and returns a successful MCP result
func (h *ResponseHelper) MarshalSuccessResponse(response map[string]interface{}) (*mcp.CallToolResult, error) {
	return h.MarshalView(response)
}

// MarshalView marshals any view to JSON as a text result
func (h *ResponseHelper) MarshalView(view any) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(view)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// ActionResponse creates a standardized lifecycle action response
func (h *ResponseHelper) ActionResponse(action, instanceStatus string) map[string]interface{} {
	return map[string]interface{}{
		"status":          "success",
		"action":          action,
		"instance_status": instanceStatus,
		"timestamp":       h.now().UTC().Format(time.RFC3339),
	}
}
