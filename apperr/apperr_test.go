package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{Unauthenticated("no token"), http.StatusUnauthorized},
		{PermissionDenied("need super_admin"), http.StatusForbidden},
		{InvalidArgument("bad input"), http.StatusBadRequest},
		{AlreadyExists("duplicate email"), http.StatusConflict},
		{FailedPrecondition("last super admin"), http.StatusPreconditionFailed},
		{NotFound("order not found"), http.StatusNotFound},
		{InvalidTransition("delivered", "packed"), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusCode(c.err), "%v", c.err)
	}
}

func TestStatusCodeSurvivesWrapping(t *testing.T) {
	err := NotFound("user not found")
	wrapped := errors.Join(errors.New("while loading profile"), err)
	assert.Equal(t, http.StatusNotFound, StatusCode(wrapped))
}

func TestIsInvalidTransition(t *testing.T) {
	assert.True(t, IsInvalidTransition(InvalidTransition("confirmed", "delivered")))
	assert.False(t, IsInvalidTransition(InvalidArgument("nope")))
	assert.False(t, IsInvalidTransition(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("gone")))
	assert.False(t, IsNotFound(AlreadyExists("there")))
}

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, NotFound("order not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "order not found")
}
