// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package handlers

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gcevm/vmctl/internal/errors"
)

// OperationError converts a failed action into an MCP error result. The
// error code is included for application errors.
func OperationError(action string, err error) *mcp.CallToolResult {
	if code, ok := errors.CodeOf(err); ok {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed [%s]: %v", action, code, err))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", action, err))
}

// RequiredConfirmationError refuses a destructive action that was not confirmed
func RequiredConfirmationError(action string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s requires confirm=true", action))
}
