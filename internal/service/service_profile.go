package service

import (
	"context"

	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/models"
)

type profileService struct {
	*credentials

	logger *logger.Logger
}

func NewProfileService(deps Dependencies, history PasswordHistoryService, logger *logger.Logger) ProfileService {
	return &profileService{
		credentials: newCredentials(deps, history),
		logger:      logger,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID int64) (models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	return user.Sanitized(), nil
}

// UpdateProfile changes the caller's own name, phone or picture. A blank
// phone removes it.
func (s *profileService) UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) error {
	if upd.IsEmpty() {
		return nil
	}

	if err := s.validator.Validate(ctx, upd); err != nil {
		return validationFrom(err)
	}

	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}

	if upd.Phone != nil {
		phone, err := s.normalizePhone(*upd.Phone)
		if err != nil {
			return err
		}

		normalized := ""
		if phone != nil {
			if err = s.ensurePhoneFree(ctx, *phone, userID); err != nil {
				return err
			}
			normalized = *phone
		}
		upd.Phone = &normalized
	}

	if err := s.users.UpdateProfile(ctx, userID, upd, s.now()); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "profileService.UpdateProfile").Int64("user_id", userID).Msg("failed to update profile")
		return mapStoreError(err)
	}
	return nil
}

// ChangePassword verifies the current password before applying the policy
// and the reuse check to the new one.
func (s *profileService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if !user.HasPassword() {
		return ErrPasswordNotSet
	}
	if !s.hasher.Verify(currentPassword, user.PasswordSalt, user.PasswordHash) {
		logger.FromContext(ctx).Warn().Str("func", "profileService.ChangePassword").Int64("user_id", userID).Msg("wrong current password")
		return ErrWrongPassword
	}

	if err = checkPasswordInput(newPassword); err != nil {
		return err
	}
	if err = s.checkPolicy(newPassword); err != nil {
		return err
	}
	if err = s.checkReuse(ctx, userID, newPassword); err != nil {
		return err
	}

	if err = s.setPassword(ctx, userID, newPassword); err != nil {
		return err
	}

	s.auditor.record(ctx, audit.Event{Type: audit.PasswordChanged, UserID: userID, ActorID: userID, Email: user.Email, Method: "self_service"})
	return nil
}

// SetPasswordForOAuth adds a first password to an OAuth-only account.
func (s *profileService) SetPasswordForOAuth(ctx context.Context, userID int64, newPassword string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.HasPassword() || !user.IsOAuth() {
		return ErrPasswordAlreadySet
	}

	if err = checkPasswordInput(newPassword); err != nil {
		return err
	}
	if err = s.checkPolicy(newPassword); err != nil {
		return err
	}

	if err = s.setPassword(ctx, userID, newPassword); err != nil {
		return err
	}

	s.auditor.record(ctx, audit.Event{Type: audit.PasswordChanged, UserID: userID, ActorID: userID, Email: user.Email, Method: "oauth_set"})
	return nil
}

func (s *profileService) IsOAuthUser(ctx context.Context, userID int64) (bool, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsOAuth(), nil
}
