package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
)

func TestPlain_NoEscapes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlain(&buf)

	p.Successf("added %d", 2)
	p.Errorf("failed")
	p.Warnf("careful")

	assert.NotContains(t, buf.String(), "\033[")
	assert.Equal(t, Check+" added 2\n"+Cross+" failed\n"+Dot+" careful\n", buf.String())
}

func TestFatalError_FieldErrors(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlain(&buf)

	var errs criterio.FieldErrorsBuilder
	errs = errs.Append("history.capacity", errors.New("must be at least 1"))
	p.FatalError(fmt.Errorf("load config: %w", errs.ToError()))

	out := buf.String()
	assert.Contains(t, out, "Validation Error")
	assert.Contains(t, out, "load config")
	assert.Contains(t, out, "history.capacity: must be at least 1")
}

func TestFatalError_Plain(t *testing.T) {
	var buf bytes.Buffer
	NewPlain(&buf).FatalError(errors.New("boom"))
	assert.Contains(t, buf.String(), "│ boom")

	buf.Reset()
	NewPlain(&buf).FatalError(nil)
	assert.Empty(t, buf.String())
}

func TestCurrent(t *testing.T) {
	assert.Equal(t, "*", NewPlain(nil).Current(true))
	assert.Equal(t, " ", NewPlain(nil).Current(false))
	assert.Contains(t, New(nil).Current(true), Arrow)
}

func TestStatus(t *testing.T) {
	plain := NewPlain(nil)
	assert.Equal(t, Check+" ok", plain.StatusOK())
	assert.Equal(t, Cross+" boom", plain.StatusFailed("boom"))
	assert.Equal(t, Dot+" skipped", plain.StatusSkipped("skipped"))

	colored := New(nil)
	assert.Equal(t, ColorGreen+Check+ColorReset+" ok", colored.StatusOK())
}

func TestCtx_Default(t *testing.T) {
	assert.NotNil(t, Ctx(context.Background()))

	p := NewPlain(nil)
	assert.Same(t, p, Ctx(NewContext(context.Background(), p)))
}
