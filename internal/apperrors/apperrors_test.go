package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad", nil), http.StatusBadRequest},
		{Duplicate("dup", nil), http.StatusConflict},
		{Unauthorized("who"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Connection("down", errors.New("dial")), http.StatusServiceUnavailable},
		{Wrap("boom", errors.New("x")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("store: %w", NotFound("Case not found"))

	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindValidation))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestValidationJoinsFieldsIntoDetails(t *testing.T) {
	err := Validation("Validation failed", map[string]string{
		"title":  "Title is required",
		"client": "Client is required",
	})

	assert.Equal(t, "client: Client is required, title: Title is required", err.Details)
}
