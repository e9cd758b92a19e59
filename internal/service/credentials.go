package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/crypto"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/store"
	"github.com/clepord34/pawres/internal/validators"
	"github.com/clepord34/pawres/models"
)

const msgPasswordRequired = "Password is required"

// credentials is the hashing, policy and uniqueness kit shared by the auth,
// admin and profile services so that every path writes passwords the same
// way.
type credentials struct {
	users     store.UserRepository
	history   PasswordHistoryService
	hasher    crypto.PasswordHasher
	policy    *validators.PasswordPolicy
	phones    *validators.PhoneNormalizer
	validator validators.Validator
	auditor   auditor
	now       Clock
}

func newCredentials(deps Dependencies, history PasswordHistoryService) *credentials {
	deps = deps.withDefaults()
	return &credentials{
		users:     deps.Users,
		history:   history,
		hasher:    deps.Hasher,
		policy:    deps.Policy,
		phones:    deps.Phones,
		validator: deps.Validator,
		auditor:   auditor{recorder: deps.Recorder, now: deps.Clock},
		now:       deps.Clock,
	}
}

// checkPolicy returns the policy violations as a *ValidationError.
func (c *credentials) checkPolicy(password string) error {
	if ok, messages := c.policy.Validate(password); !ok {
		return newValidationError(messages...)
	}
	return nil
}

// checkPasswordInput applies the structural password rules that hold even
// when the policy is skipped.
func checkPasswordInput(password string) error {
	if password == "" {
		return newValidationError(msgPasswordRequired)
	}
	if utf8.RuneCountInString(password) > validators.MaxPasswordLength {
		return validationFrom(validators.ErrPasswordTooLong)
	}
	return nil
}

// checkReuse rejects passwords found in the user's recent history.
func (c *credentials) checkReuse(ctx context.Context, userID int64, password string) error {
	allowed, message, err := c.history.CheckReuse(ctx, userID, password)
	if err != nil {
		return err
	}
	if !allowed {
		return newValidationError(message)
	}
	return nil
}

func (c *credentials) hashNew(password string) (hash, salt string, err error) {
	salt, err = c.hasher.GenerateSalt()
	if err != nil {
		return "", "", err
	}
	hash, err = c.hasher.Hash(password, salt)
	if err != nil {
		return "", "", err
	}
	return hash, salt, nil
}

// normalizePhone returns nil for a blank phone.
func (c *credentials) normalizePhone(raw string) (*string, error) {
	phone, err := c.phones.Normalize(raw)
	if err != nil {
		return nil, validationFrom(err)
	}
	if phone == "" {
		return nil, nil
	}
	return &phone, nil
}

func (c *credentials) ensureEmailFree(ctx context.Context, email string, excludeID int64) error {
	taken, err := c.users.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailAlreadyExists
	}
	return nil
}

func (c *credentials) ensurePhoneFree(ctx context.Context, phone string, excludeID int64) error {
	taken, err := c.users.PhoneTaken(ctx, phone, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrPhoneAlreadyExists
	}
	return nil
}

// createAccount runs the shared registration pipeline on already
// structurally validated input: uniqueness, policy, hashing, insert and
// history seeding. actorID is the creating admin, 0 for self-registration.
func (c *credentials) createAccount(ctx context.Context, reg models.Registration, actorID int64) (int64, error) {
	log := logger.FromContext(ctx)

	if err := checkPasswordInput(reg.Password); err != nil {
		return 0, err
	}

	phone, err := c.normalizePhone(reg.Phone)
	if err != nil {
		return 0, err
	}

	if err = c.ensureEmailFree(ctx, reg.Email, 0); err != nil {
		return 0, err
	}
	if phone != nil {
		if err = c.ensurePhoneFree(ctx, *phone, 0); err != nil {
			return 0, err
		}
	}

	if !reg.SkipPolicy {
		if err = c.checkPolicy(reg.Password); err != nil {
			return 0, err
		}
	}

	hash, salt, err := c.hashNew(reg.Password)
	if err != nil {
		log.Err(err).Str("func", "credentials.createAccount").Msg("failed to hash password")
		return 0, fmt.Errorf("error hashing password: %w", err)
	}

	now := c.now()
	id, err := c.users.Create(ctx, models.User{
		Name:         reg.Name,
		Email:        reg.Email,
		Phone:        phone,
		Role:         reg.Role,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		log.Err(err).Str("func", "credentials.createAccount").Msg("failed to create user")
		return 0, mapStoreError(err)
	}

	if err = c.appendHistory(ctx, id, hash, salt); err != nil {
		log.Err(err).Str("func", "credentials.createAccount").Int64("user_id", id).Msg("failed to seed password history")
		return 0, err
	}

	c.auditor.record(ctx, audit.Event{
		Type:    audit.UserCreated,
		UserID:  id,
		ActorID: actorID,
		Email:   reg.Email,
		Role:    reg.Role,
		Method:  "password",
	})
	log.Info().Str("func", "credentials.createAccount").Int64("user_id", id).Str("role", string(reg.Role)).Msg("user created")

	return id, nil
}

// setPassword stores a new password, which also clears any lockout, and
// appends it to the history.
func (c *credentials) setPassword(ctx context.Context, userID int64, password string) error {
	hash, salt, err := c.hashNew(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err = c.users.UpdateCredentials(ctx, userID, hash, salt, c.now()); err != nil {
		return mapStoreError(err)
	}

	return c.appendHistory(ctx, userID, hash, salt)
}

// appendHistory is a no-op when history retention is disabled.
func (c *credentials) appendHistory(ctx context.Context, userID int64, hash, salt string) error {
	maxHistory := c.policy.HistoryCount()
	if maxHistory <= 0 {
		return nil
	}
	return c.history.AddToHistory(ctx, userID, hash, salt, maxHistory)
}

// getUser loads a user and maps a missing row to ErrUserNotFound.
func (c *credentials) getUser(ctx context.Context, userID int64) (models.User, error) {
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, mapStoreError(err)
	}
	return user, nil
}

// findByIdentifier looks an account up by exact email, then by normalized
// phone. found is false when neither matches.
func (c *credentials) findByIdentifier(ctx context.Context, identifier string) (user models.User, found bool, err error) {
	user, err = c.users.GetByEmail(ctx, identifier)
	if err == nil {
		return user, true, nil
	}
	if !errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, false, err
	}

	phone, normErr := c.phones.Normalize(identifier)
	if normErr != nil || phone == "" {
		return models.User{}, false, nil
	}

	user, err = c.users.GetByPhone(ctx, phone)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}
