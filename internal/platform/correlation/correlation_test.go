package correlation_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/adarsh-naik-2004/bats-admin/internal/platform/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithIDAndID(t *testing.T) {
	ctx := context.Background()

	_, ok := correlation.ID(ctx)
	assert.False(t, ok)

	ctx = correlation.WithID(ctx, "abcd1234")
	id, ok := correlation.ID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abcd1234", id)
}

func TestEnsure_PreservesExistingID(t *testing.T) {
	ctx := correlation.WithID(context.Background(), "abcd1234")
	ctx = correlation.Ensure(ctx)

	id, _ := correlation.ID(ctx)
	assert.Equal(t, "abcd1234", id)
}

func TestEnsure_GeneratesID(t *testing.T) {
	ctx := correlation.Ensure(context.Background())
	id, ok := correlation.ID(ctx)
	assert.True(t, ok)
	assert.Len(t, id, 8)
}

func TestApply_StampsHeader(t *testing.T) {
	ctx := correlation.WithID(context.Background(), "abcd1234")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.test", nil)
	require.NoError(t, err)

	correlation.Apply(req)
	assert.Equal(t, "abcd1234", req.Header.Get(correlation.Header))
}

func TestApply_NoIDNoHeader(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.test", nil)
	require.NoError(t, err)

	correlation.Apply(req)
	assert.Empty(t, req.Header.Get(correlation.Header))
}

func TestHandler_InjectsAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(correlation.NewHandler(slog.NewTextHandler(&buf, nil)))

	ctx := correlation.WithID(context.Background(), "abcd1234")
	logger.InfoContext(ctx, "hello")

	assert.True(t, strings.Contains(buf.String(), "correlation_id=abcd1234"))
}
