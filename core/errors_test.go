package core

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	err := Error(EWRAP, "cannot fit glyph into %d units", 3)
	assert.Equal(t, EWRAP, Code(err))
	assert.Equal(t, "cannot fit glyph into 3 units", UserMessage(err))
	assert.Equal(t, "[128] cannot fit glyph into 3 units: failed to wrap", err.Error())
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, EINTERNAL, Code(errors.New("plain")))
}

func TestWrappedErrorUnwraps(t *testing.T) {
	err := WrapError(os.ErrNotExist, EFONT, "font %q cannot be loaded", "x.ttf")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped error to match os.ErrNotExist")
	}
	if Code(err) != EFONT {
		t.Errorf("expected code %d, have %d", EFONT, Code(err))
	}
	var app AppError
	if !errors.As(err, &app) {
		t.Fatalf("expected an AppError")
	}
	if app.UserMessage() != `font "x.ttf" cannot be loaded` {
		t.Errorf("unexpected user message %q", app.UserMessage())
	}
	if ErrorWithCode(nil, EMISSING).Error() != "[122] not found" {
		t.Errorf("unexpected message for nil error with code: %q", ErrorWithCode(nil, EMISSING).Error())
	}
}

func TestWrapKeepsInnerCode(t *testing.T) {
	inner := Error(EWRAP, "glyph does not fit")
	err := WrapError(inner, Code(inner), "failed to shape string %q", "abc")
	assert.Equal(t, EWRAP, Code(err))
	assert.Equal(t, `failed to shape string "abc"`, UserMessage(err))
	assert.Equal(t, "undefined error", errorText(999))
	assert.Equal(t, "[123] invalid", WrapError(nil, EINVALID, "invalid").Error())
}
