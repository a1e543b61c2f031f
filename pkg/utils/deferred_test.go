package utils

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferredWriter(t *testing.T) {
	var d DeferredWriter

	logger := zerolog.New(&d)
	logger.Info().Msg("first")
	logger.Warn().Msg("second")
	require.Equal(t, 2, d.Len())

	var buf bytes.Buffer
	require.NoError(t, d.Flush(&buf))

	assert.Equal(t, `{"level":"info","message":"first"}`+"\n"+`{"level":"warn","message":"second"}`+"\n", buf.String())
	assert.Equal(t, 0, d.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestDeferredWriter_FlushError(t *testing.T) {
	var d DeferredWriter
	_, _ = d.Write([]byte("x"))

	assert.Error(t, d.Flush(failingWriter{}))
}
