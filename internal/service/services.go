// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The PawRes Authors

package service

import (
	"time"

	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/config"
	"github.com/clepord34/pawres/internal/crypto"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/store"
	"github.com/clepord34/pawres/internal/validators"
)

// Clock returns the current time. Services use it instead of time.Now so
// that lockout and session expiry can be tested deterministically.
type Clock func() time.Time

// UTCClock is the production clock.
func UTCClock() time.Time {
	return time.Now().UTC()
}

// Dependencies are the collaborators shared by the account services.
type Dependencies struct {
	Users    store.UserRepository
	History  store.PasswordHistoryRepository
	Sessions store.SessionStore
	Recorder audit.Recorder

	Hasher    crypto.PasswordHasher
	Policy    *validators.PasswordPolicy
	Phones    *validators.PhoneNormalizer
	Validator validators.Validator

	Clock Clock
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Clock == nil {
		d.Clock = UTCClock
	}
	if d.Recorder == nil {
		d.Recorder = audit.Nop{}
	}
	if d.Validator == nil {
		d.Validator = validators.NewUserInputValidator()
	}
	if d.Phones == nil {
		d.Phones = validators.NewPhoneNormalizer(validators.DefaultPhoneRegion)
	}
	return d
}

type Services struct {
	AuthService            AuthService
	PasswordHistoryService PasswordHistoryService
	UserAdminService       UserAdminService
	ProfileService         ProfileService
	SessionService         SessionService
	AccessService          AccessService
	AppInfoService         AppInfoService
}

// NewDependencies builds the hashing, policy and normalization primitives
// from cfg around the given storages and recorder.
func NewDependencies(storages *store.Storages, recorder audit.Recorder, cfg config.StructuredConfig) Dependencies {
	hasher := crypto.NewPBKDF2Hasher(cfg.Security.PBKDF2Iterations, cfg.Security.SaltLength)

	return Dependencies{
		Users:     storages.UserRepository,
		History:   storages.PasswordHistoryRepository,
		Sessions:  storages.SessionStore,
		Recorder:  recorder,
		Hasher:    hasher,
		Policy:    validators.NewPasswordPolicy(cfg.Security.PolicyConfig(), hasher),
		Phones:    validators.NewPhoneNormalizer(cfg.App.PhoneRegion),
		Validator: validators.NewUserInputValidator(),
		Clock:     UTCClock,
	}
}

func NewServices(deps Dependencies, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	history := NewPasswordHistoryService(deps, logger)
	auth := NewAuthService(deps, history, cfg.Security, cfg.App, logger)

	return &Services{
		AuthService:            auth,
		PasswordHistoryService: history,
		UserAdminService:       NewUserAdminService(deps, history, auth, logger),
		ProfileService:         NewProfileService(deps, history, logger),
		SessionService:         NewSessionService(deps, cfg.Security.SessionTimeout, logger),
		AccessService:          NewAccessService(deps, cfg.Security.SessionTimeout, logger),
		AppInfoService:         appInfo,
	}, nil
}
