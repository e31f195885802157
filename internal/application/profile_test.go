package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
	"github.com/SARVESHVARADKAR123/townsquare/internal/security"
)

func TestSignIn_CreatesThenReturnsUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := newUserID()
	h.identity["good"] = security.Identity{ExternalUserID: id, Email: "Ada.Lovelace@Example.com"}

	user, created, err := h.svc.SignIn(ctx, "good")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.UserID(id), user.ID())
	assert.Equal(t, "ada.lovelace@example.com", user.Email().String())
	assert.Equal(t, "ada.lovelace", user.Nickname().String())
	_, hasAvatar := user.AvatarURL().Value()
	assert.False(t, hasAvatar)

	again, created, err := h.svc.SignIn(ctx, "good")
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, domain.SameEntity(user, again))
}

func TestSignIn_TruncatesLongNickname(t *testing.T) {
	h := newHarness(t)
	local := strings.Repeat("n", domain.MaxNicknameLength+10)
	h.identity["long"] = security.Identity{ExternalUserID: newUserID(), Email: local + "@example.com"}

	user, _, err := h.svc.SignIn(context.Background(), "long")
	require.NoError(t, err)
	assert.Equal(t, local[:domain.MaxNicknameLength], user.Nickname().String())
}

func TestSignIn_Rejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, _, err := h.svc.SignIn(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	h.identity["bad-email"] = security.Identity{ExternalUserID: newUserID(), Email: "nope"}
	_, _, err = h.svc.SignIn(ctx, "bad-email")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := newUserID()
	h.identity["tok"] = security.Identity{ExternalUserID: id, Email: "grace@example.com"}
	_, _, err := h.svc.SignIn(ctx, "tok")
	require.NoError(t, err)

	nick, avatar := "Amazing Grace", "https://example.com/g.png"
	user, err := h.svc.UpdateProfile(ctx, UpdateProfileCommand{UserID: id, Nickname: &nick, AvatarURL: &avatar})
	require.NoError(t, err)
	assert.Equal(t, nick, user.Nickname().String())
	url, ok := user.AvatarURL().Value()
	assert.True(t, ok)
	assert.Equal(t, avatar, url)

	// nil leaves a field alone, empty clears the avatar
	clear := "  "
	user, err = h.svc.UpdateProfile(ctx, UpdateProfileCommand{UserID: id, AvatarURL: &clear})
	require.NoError(t, err)
	assert.Equal(t, nick, user.Nickname().String())
	_, ok = user.AvatarURL().Value()
	assert.False(t, ok)

	stored, err := h.svc.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, nick, stored.Nickname().String())

	bad := "ftp://example.com/x.png"
	_, err = h.svc.UpdateProfile(ctx, UpdateProfileCommand{UserID: id, AvatarURL: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.svc.GetProfile(ctx, newUserID())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
