package service

import (
	"context"
	"fmt"

	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/store"
	"github.com/clepord34/pawres/internal/validators"
	"github.com/clepord34/pawres/models"
)

type passwordHistoryService struct {
	history store.PasswordHistoryRepository
	policy  *validators.PasswordPolicy
	now     Clock

	logger *logger.Logger
}

func NewPasswordHistoryService(deps Dependencies, logger *logger.Logger) PasswordHistoryService {
	deps = deps.withDefaults()
	return &passwordHistoryService{
		history: deps.History,
		policy:  deps.Policy,
		now:     deps.Clock,
		logger:  logger,
	}
}

// AddToHistory stores the digest and evicts entries beyond maxHistory.
// Write failures are returned, never swallowed.
func (s *passwordHistoryService) AddToHistory(ctx context.Context, userID int64, hash, salt string, maxHistory int) error {
	err := s.history.Add(ctx, models.PasswordHistoryEntry{
		UserID:       userID,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    s.now(),
	}, maxHistory)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "passwordHistoryService.AddToHistory").
			Int64("user_id", userID).
			Msg("failed to add password history entry")
		return fmt.Errorf("error adding password history: %w", mapStoreError(err))
	}
	return nil
}

func (s *passwordHistoryService) CheckReuse(ctx context.Context, userID int64, candidate string) (bool, string, error) {
	count := s.policy.HistoryCount()
	if count <= 0 {
		return true, "", nil
	}

	entries, err := s.history.Recent(ctx, userID, count)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "passwordHistoryService.CheckReuse").
			Int64("user_id", userID).
			Msg("failed to load password history")
		return false, "", fmt.Errorf("error loading password history: %w", err)
	}

	for _, entry := range entries {
		digest, err := s.policy.HashForHistory(candidate, entry.PasswordSalt)
		if err != nil {
			// a corrupt salt cannot match anything
			continue
		}
		if digest == entry.PasswordHash {
			return false, fmt.Sprintf("Cannot reuse any of your last %d passwords", count), nil
		}
	}

	return true, "", nil
}

func (s *passwordHistoryService) ClearHistory(ctx context.Context, userID int64) error {
	if err := s.history.Clear(ctx, userID); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "passwordHistoryService.ClearHistory").
			Int64("user_id", userID).
			Msg("failed to clear password history")
		return fmt.Errorf("error clearing password history: %w", err)
	}
	return nil
}
