package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:  http.StatusBadRequest,
		KindBadRequest:  http.StatusBadRequest,
		KindTooLarge:    http.StatusRequestEntityTooLarge,
		KindUnavailable: http.StatusServiceUnavailable,
		KindInternal:    http.StatusInternalServerError,
		KindUnknown:     http.StatusBadRequest,
	}
	for kind, want := range cases {
		assert.Equal(t, want, New(kind, "x").HTTPStatus(), "kind %d", kind)
	}
}

func TestGetKindFollowsWrapping(t *testing.T) {
	err := fmt.Errorf("upload: %w", New(KindUnavailable, "storage offline").WithOp("media.Upload"))

	assert.Equal(t, KindUnavailable, GetKind(err))
	assert.True(t, Is(err, KindUnavailable))
	assert.Equal(t, KindUnknown, GetKind(fmt.Errorf("plain")))
}

func TestFieldViolations(t *testing.T) {
	err := FieldViolations(map[string]string{"password": "password is too common"})

	assert.Equal(t, "validation failed", err.Error())
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, map[string]string{"password": "password is too common"}, err.Details)
}
