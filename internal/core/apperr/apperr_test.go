package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("post", "x")))
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("wrapped: %w", Validation("bad"))))
	assert.Equal(t, KindStore, KindOf(errors.New("boom")))
}

func TestAsStore(t *testing.T) {
	assert.Nil(t, AsStore(nil))

	nf := NotFound("user", 1)
	assert.Same(t, nf, AsStore(nf))

	cause := errors.New("connection refused")
	err := AsStore(cause)
	assert.True(t, Is(err, KindStore))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", err.(*Error).Message)
}

func TestUploadFailedMessage(t *testing.T) {
	err := UploadFailed(errors.New("s3 down"))
	assert.Equal(t, "failed to upload image", err.Message)
	assert.Contains(t, err.Error(), "s3 down")
}
