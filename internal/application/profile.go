package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/townsquare/internal/domain"
)

const defaultNickname = "user"

// SignIn verifies an external identity token and returns the matching user,
// creating it on first sign-in. created reports whether a user was created.
func (s *Service) SignIn(ctx context.Context, idToken string) (user *domain.User, created bool, err error) {
	identity, err := s.identity.Verify(ctx, idToken)
	if err != nil {
		s.log.Warn("identity verification failed", zap.Error(err))
		return nil, false, domain.ErrInvalidCredentials
	}

	userID, err := domain.ParseUserID(identity.ExternalUserID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.users.FindByID(ctx, userID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to load user: %w", err)
	}

	email, err := domain.NewEmail(identity.Email)
	if err != nil {
		return nil, false, err
	}
	nickname, err := domain.NewNickname(nicknameFromEmail(email))
	if err != nil {
		return nil, false, err
	}

	user = domain.NewUser(userID, email, nickname, domain.AvatarURL{}, s.now())
	if err := s.users.Save(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to save user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", string(userID)))
	return user, true, nil
}

// nicknameFromEmail takes the local part, cut to the nickname limit.
func nicknameFromEmail(email domain.Email) string {
	local := []rune(strings.TrimSpace(email.LocalPart()))
	if len(local) > domain.MaxNicknameLength {
		local = local[:domain.MaxNicknameLength]
	}
	if n := strings.TrimSpace(string(local)); n != "" {
		return n
	}
	return defaultNickname
}

func (s *Service) GetProfile(ctx context.Context, rawUserID string) (*domain.User, error) {
	userID, err := domain.ParseUserID(rawUserID)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

// UpdateProfileCommand leaves a field unchanged when it is nil. An empty
// AvatarURL clears the avatar.
type UpdateProfileCommand struct {
	UserID    string
	Nickname  *string
	AvatarURL *string
}

func (s *Service) UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (*domain.User, error) {
	userID, err := domain.ParseUserID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	var (
		nickname domain.Nickname
		avatar   domain.AvatarURL
	)
	if cmd.Nickname != nil {
		if nickname, err = domain.NewNickname(*cmd.Nickname); err != nil {
			return nil, err
		}
	}
	if cmd.AvatarURL != nil {
		if avatar, err = domain.NewAvatarURL(*cmd.AvatarURL); err != nil {
			return nil, err
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cmd.Nickname != nil {
		user.UpdateNickname(nickname)
	}
	if cmd.AvatarURL != nil {
		user.UpdateAvatarURL(avatar)
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return user, nil
}
