package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeCode(t *testing.T) {
	tests := []struct {
		service  int
		category int
		sequence int
		expected int
	}{
		{0, 0, 0, 0},
		{0, 1, 1, 1001},
		{20, 7, 1, 2007001},
		{90, 10, 0, 9010000},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d_%d", tt.service, tt.category, tt.sequence), func(t *testing.T) {
			got := MakeCode(tt.service, tt.category, tt.sequence)
			assert.Equal(t, tt.expected, got)

			s, c, n := ParseCode(got)
			assert.Equal(t, tt.service, s)
			assert.Equal(t, tt.category, c)
			assert.Equal(t, tt.sequence, n)
		})
	}
}

func TestErrnoWithCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := ErrUpstream.WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus())

	// original is untouched
	assert.Nil(t, ErrUpstream.Unwrap())
}

func TestErrnoWithMessage(t *testing.T) {
	err := ErrInvalidParam.WithMessagef("field %s is required", "message")

	assert.Equal(t, "field message is required", err.MessageEN)
	assert.Equal(t, ErrInvalidParam.Code, err.Code)
	assert.Equal(t, "参数无效", err.Message("zh"))
	assert.Equal(t, "Invalid parameter", ErrInvalidParam.Message("en"))
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	wrapped := fmt.Errorf("handler: %w", ErrNotFound)
	assert.Equal(t, ErrNotFound.Code, FromError(wrapped).Code)
	assert.True(t, IsCode(wrapped, ErrNotFound.Code))

	plain := FromError(stderrors.New("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.HTTPStatus())
}

func TestRegisterDuplicatePanics(t *testing.T) {
	e, ok := Lookup(ErrInternal.Code)
	require.True(t, ok)
	assert.Same(t, ErrInternal, e)

	assert.Panics(t, func() {
		Register(&Errno{Code: ErrInternal.Code, MessageEN: "dup"})
	})
}
