package web

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/timetab/timetab/internal/importer"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"unknown format", importer.ErrUnknownFormat, "FMT001"},
		{"wrapped unknown format", fmt.Errorf("preview: %w", importer.ErrUnknownFormat), "FMT001"},
		{"expired preview", fmt.Errorf("%w: abc", importer.ErrPreviewNotFound), "PRV001"},
		{"store down", errors.New(`GET /api/v1/clients: dial tcp: connection refused`), "STO001"},
		{"store timeout", errors.New("context deadline exceeded"), "STO002"},
		{"bad token", errors.New("store: request failed (status 401)"), "STO003"},
		{"oversized upload", errors.New("http: request body too large"), "FMT003"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := mapError(tt.err)
			assert.True(t, ok)
			assert.Equal(t, tt.code, msg.Code)
			assert.NotEmpty(t, msg.Message)
			assert.NotEmpty(t, msg.Action)
		})
	}
}

func TestMapError_Fallback(t *testing.T) {
	msg, ok := mapError(errors.New("pq: syntax error at position 12"))
	assert.False(t, ok)
	assert.Equal(t, "GEN001", msg.Code)
	// Internals never leak to clients.
	assert.NotContains(t, msg.Message, "syntax error")
}

func TestMapError_Nil(t *testing.T) {
	msg, ok := mapError(nil)
	assert.False(t, ok)
	assert.Empty(t, msg.Code)
}
