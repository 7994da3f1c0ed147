// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		code      ErrorCode
		notFound  bool
		cancelled bool
	}{
		{
			name:     "not found",
			err:      NotFound("instance", "demo"),
			code:     CodeNotFound,
			notFound: true,
		},
		{
			name:     "wrapped not found",
			err:      fmt.Errorf("lookup: %w", NotFound("instance", "demo")),
			code:     CodeNotFound,
			notFound: true,
		},
		{
			name: "remote operation",
			err:  RemoteOperation("instance creation", []string{"QUOTA_EXCEEDED: out of CPUs"}),
			code: CodeRemoteOperation,
		},
		{
			name:      "cancelled",
			err:       Cancelled("instance start", context.Canceled),
			code:      CodeCancelled,
			cancelled: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, Is(tc.err, tc.code))
			assert.Equal(t, tc.notFound, IsNotFound(tc.err))
			assert.Equal(t, tc.cancelled, IsCancelled(tc.err))
		})
	}
}

func TestRemoteOperationMessage(t *testing.T) {
	err := RemoteOperation("instance stop", []string{"A: first", "B: second"})
	assert.Equal(t, "instance stop failed: A: first; B: second: remote operation failed", err.Error())
	assert.True(t, stderrors.Is(err, ErrRemoteOperation))
}

func TestConfigDefaultsCause(t *testing.T) {
	err := Config("bad config", nil)
	assert.True(t, stderrors.Is(err, ErrConfig))
	assert.Equal(t, CodeConfig, err.Code)
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(fmt.Errorf("outer: %w", Cancelled("instance start", context.Canceled)))
	assert.True(t, ok)
	assert.Equal(t, CodeCancelled, code)

	_, ok = CodeOf(stderrors.New("plain"))
	assert.False(t, ok)
}
