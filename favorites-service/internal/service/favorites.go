package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-crowdfunding/pkg/log"

	"github.com/pribylovaa/go-crowdfunding/favorites-service/internal/models"
)

// AddResult — исход операции добавления.
// Added=false означает, что запись уже была в избранном (вызов идемпотентен).
type AddResult struct {
	Added bool
}

// RemoveResult — исход операции удаления.
// Removed=false означает, что записи и не было (вызов идемпотентен).
type RemoveResult struct {
	Removed bool
}

// AddFavorite — бизнес-операция добавления кампании в избранное.
//
// Валидация:
//   - OwnerID обязателен (uuid.Nil -> ErrInvalidArgument);
//   - CampaignID нормализуется (TrimSpace) и не должен быть пустым.
//
// Повторный вызов для той же пары — успешный no-op (Added=false).
func (s *Service) AddFavorite(ctx context.Context, ownerID uuid.UUID, campaignID string) (*AddResult, error) {
	const op = "service/favorites/AddFavorite"

	lg := log.From(ctx).With(
		"op", op,
		"owner_id", ownerID.String(),
		"campaign_id", campaignID,
	)

	if ownerID == uuid.Nil {
		lg.Warn("invalid argument: empty owner_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		lg.Warn("invalid argument: empty campaign_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	added, err := s.storage.AddFavorite(ctx, models.Favorite{
		OwnerID:    ownerID,
		CampaignID: campaignID,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		lg.Error("storage error on AddFavorite", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return &AddResult{Added: added}, nil
}

// RemoveFavorite — бизнес-операция удаления кампании из избранного.
// Удаление отсутствующей записи — успешный no-op (Removed=false).
func (s *Service) RemoveFavorite(ctx context.Context, ownerID uuid.UUID, campaignID string) (*RemoveResult, error) {
	const op = "service/favorites/RemoveFavorite"

	lg := log.From(ctx).With(
		"op", op,
		"owner_id", ownerID.String(),
		"campaign_id", campaignID,
	)

	if ownerID == uuid.Nil {
		lg.Warn("invalid argument: empty owner_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		lg.Warn("invalid argument: empty campaign_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	removed, err := s.storage.RemoveFavorite(ctx, ownerID, campaignID)
	if err != nil {
		lg.Error("storage error on RemoveFavorite", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return &RemoveResult{Removed: removed}, nil
}

// ListFavorites — избранное владельца в порядке добавления.
func (s *Service) ListFavorites(ctx context.Context, ownerID uuid.UUID) ([]models.Favorite, error) {
	const op = "service/favorites/ListFavorites"

	lg := log.From(ctx).With(
		"op", op,
		"owner_id", ownerID.String(),
	)

	if ownerID == uuid.Nil {
		lg.Warn("invalid argument: empty owner_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	items, err := s.storage.ListByOwner(ctx, ownerID)
	if err != nil {
		lg.Error("storage error on ListByOwner", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return items, nil
}
