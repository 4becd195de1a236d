package identity_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/nexa/internal/app/system/identity"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := &identity.Error{Kind: identity.KindTokenExpired, Op: "verify token"}
	wrapped := fmt.Errorf("middleware: %w", base)

	assert.Equal(t, identity.KindTokenExpired, identity.KindOf(base))
	assert.Equal(t, identity.KindTokenExpired, identity.KindOf(wrapped))
	assert.Equal(t, identity.KindUnknown, identity.KindOf(errors.New("plain")))
	assert.Equal(t, identity.KindUnknown, identity.KindOf(nil))
}

func TestError_Message(t *testing.T) {
	cause := errors.New("boom")
	err := &identity.Error{Kind: identity.KindUnavailable, Op: "sign in", Err: cause}
	assert.Equal(t, "identity sign in: unavailable: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := &identity.Error{Kind: identity.KindBadCredentials, Op: "sign in"}
	assert.Equal(t, "identity sign in: bad_credentials", bare.Error())
}
