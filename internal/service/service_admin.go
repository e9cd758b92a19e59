package service

import (
	"context"
	"strings"
	"time"

	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/models"
)

const recentSignupWindow = 7 * 24 * time.Hour

type userAdminService struct {
	*credentials

	auth AuthService

	logger *logger.Logger
}

func NewUserAdminService(deps Dependencies, history PasswordHistoryService, auth AuthService, logger *logger.Logger) UserAdminService {
	return &userAdminService{
		credentials: newCredentials(deps, history),
		auth:        auth,
		logger:      logger,
	}
}

// CreateUser registers an account on behalf of adminID. Unlike
// self-registration the role must be given explicitly.
func (s *userAdminService) CreateUser(ctx context.Context, adminID int64, reg models.Registration) (int64, error) {
	if err := s.validator.Validate(ctx, reg); err != nil {
		return 0, validationFrom(err)
	}

	return s.createAccount(ctx, reg, adminID)
}

func (s *userAdminService) UpdateUser(ctx context.Context, adminID, userID int64, upd models.UserUpdate) error {
	log := logger.FromContext(ctx)

	if upd.IsEmpty() {
		return nil
	}

	if err := s.validator.Validate(ctx, upd); err != nil {
		return validationFrom(err)
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if upd.Email != nil && *upd.Email != user.Email {
		if err = s.ensureEmailFree(ctx, *upd.Email, userID); err != nil {
			return err
		}
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

	if err = s.users.Update(ctx, userID, upd, s.now()); err != nil {
		log.Err(err).Str("func", "userAdminService.UpdateUser").Int64("user_id", userID).Msg("failed to update user")
		return mapStoreError(err)
	}

	if upd.Role != nil && *upd.Role != user.Role {
		s.auditor.record(ctx, audit.Event{
			Type:    audit.RoleChanged,
			UserID:  userID,
			ActorID: adminID,
			Email:   user.Email,
			OldRole: user.Role,
			NewRole: *upd.Role,
		})
	}

	log.Info().Str("func", "userAdminService.UpdateUser").Int64("user_id", userID).Int64("admin_id", adminID).Msg("user updated")
	return nil
}

func (s *userAdminService) DisableUser(ctx context.Context, adminID, userID int64) error {
	if adminID == userID {
		return ErrCannotModifySelf
	}
	return s.setDisabled(ctx, adminID, userID, true)
}

// EnableUser re-enables the account and clears any lockout.
func (s *userAdminService) EnableUser(ctx context.Context, adminID, userID int64) error {
	return s.setDisabled(ctx, adminID, userID, false)
}

func (s *userAdminService) setDisabled(ctx context.Context, adminID, userID int64, disabled bool) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err = s.users.SetDisabled(ctx, userID, disabled, s.now()); err != nil {
		return mapStoreError(err)
	}

	// enabling also zeroes the lockout counters in the same update
	event := audit.UserDisabled
	if !disabled {
		event = audit.UserEnabled
	}

	s.auditor.record(ctx, audit.Event{Type: event, UserID: userID, ActorID: adminID, Email: user.Email})
	logger.FromContext(ctx).Info().
		Str("func", "userAdminService.setDisabled").
		Int64("user_id", userID).
		Int64("admin_id", adminID).
		Bool("disabled", disabled).
		Msg("user state changed")
	return nil
}

// ResetPassword sets a new password without knowing the current one. The
// complexity policy applies unless opts.SkipPolicy; the history check only
// runs with opts.CheckHistory. Any lockout is cleared.
func (s *userAdminService) ResetPassword(ctx context.Context, adminID, userID int64, newPassword string, opts models.ResetPasswordOptions) error {
	if err := checkPasswordInput(newPassword); err != nil {
		return err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if !opts.SkipPolicy {
		if err = s.checkPolicy(newPassword); err != nil {
			return err
		}
	}
	if opts.CheckHistory {
		if err = s.checkReuse(ctx, userID, newPassword); err != nil {
			return err
		}
	}

	if err = s.setPassword(ctx, userID, newPassword); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "userAdminService.ResetPassword").Int64("user_id", userID).Msg("failed to reset password")
		return err
	}

	s.auditor.record(ctx, audit.Event{Type: audit.PasswordReset, UserID: userID, ActorID: adminID, Email: user.Email})
	s.auditor.record(ctx, audit.Event{Type: audit.PasswordChanged, UserID: userID, ActorID: adminID, Email: user.Email, Method: "admin_reset"})
	return nil
}

// DeleteUser removes the account together with its password history.
func (s *userAdminService) DeleteUser(ctx context.Context, adminID, userID int64) error {
	if adminID == userID {
		return ErrCannotModifySelf
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err = s.history.ClearHistory(ctx, userID); err != nil {
		return err
	}
	if err = s.users.Delete(ctx, userID); err != nil {
		return mapStoreError(err)
	}

	s.auditor.record(ctx, audit.Event{Type: audit.UserDeleted, UserID: userID, ActorID: adminID, Email: user.Email})
	logger.FromContext(ctx).Info().Str("func", "userAdminService.DeleteUser").Int64("user_id", userID).Int64("admin_id", adminID).Msg("user deleted")
	return nil
}

func (s *userAdminService) GetUserStats(ctx context.Context) (models.UserStats, error) {
	return s.users.Stats(ctx, s.now().Add(-recentSignupWindow))
}

func (s *userAdminService) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

func (s *userAdminService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	return user.Sanitized(), nil
}

func (s *userAdminService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return models.User{}, mapStoreError(err)
	}
	return user.Sanitized(), nil
}

func (s *userAdminService) GetLockoutInfo(ctx context.Context, identifier string) (models.LockoutInfo, error) {
	status, err := s.auth.GetLockoutStatus(ctx, identifier)
	if err != nil {
		return models.LockoutInfo{}, err
	}

	attempts, err := s.auth.GetFailedLoginAttempts(ctx, identifier)
	if err != nil {
		return models.LockoutInfo{}, err
	}

	return models.LockoutInfo{LockoutStatus: status, FailedAttempts: attempts}, nil
}
