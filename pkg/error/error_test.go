package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrors_Codes(t *testing.T) {
	cases := []struct {
		err    GenericError
		code   string
		status int
	}{
		{NotFoundError("missing"), "NOT_FOUND_ERROR", http.StatusNotFound},
		{ParseError("bad yaml"), "PARSE_ERROR", http.StatusUnprocessableEntity},
		{IOError("disk full"), "IO_ERROR", http.StatusInternalServerError},
		{ValidationError("index out of range"), "VALIDATION_ERROR", http.StatusBadRequest},
		{InternalServerError("boom"), "INTERNAL_SERVER_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.ErrCode())
		assert.Equal(t, tc.status, tc.err.StatusCode())
	}
}

func TestTypedErrors_SurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load config: %w", NotFoundError("config.yaml does not exist"))

	var notFound NotFoundError
	assert.True(t, errors.As(wrapped, &notFound))
	assert.Equal(t, "config.yaml does not exist", notFound.Error())

	var generic GenericError
	assert.True(t, errors.As(wrapped, &generic))
	assert.Equal(t, http.StatusNotFound, generic.StatusCode())
}
