package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/models"
	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/storage"

	"github.com/pribylovaa/go-crowdfunding/pkg/log"
)

// ListCampaigns возвращает страницу кампаний по критериям.
//
// Правила нормализации:
//   - page <= 0 -> 1;
//   - pageSize <= 0 -> cfg.Limits.DefaultPageSize;
//   - pageSize > max -> cfg.Limits.MaxPageSize.
//
// Ошибки:
//   - ErrInvalidRange — противоречивые границы цены (min > max): запрос не
//     исполняется, границы не переставляются;
//   - ErrInvalidArgument — непарные координаты или неизвестный тип;
//   - прочие ошибки стораджа — обёрнутые и прокинутые наверх; состояние
//     вызывающей стороны (фильтры/избранное) они не затрагивают.
func (s *Service) ListCampaigns(ctx context.Context, c models.Criteria) (*models.Page, error) {
	const op = "service.queries.ListCampaigns"

	lg := log.From(ctx)
	lg.Info("list_campaigns_request",
		slog.String("op", op),
		slog.Int("page", c.Page),
		slog.Int("page_size", c.PageSize),
		slog.Bool("has_search", c.Search != ""),
	)

	if err := validateCriteria(c); err != nil {
		lg.Warn("list_campaigns_invalid_criteria",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if c.Page <= 0 {
		c.Page = 1
	}

	if c.PageSize <= 0 {
		c.PageSize = s.cfg.Limits.DefaultPageSize
	}

	if s.cfg.Limits.MaxPageSize > 0 && c.PageSize > s.cfg.Limits.MaxPageSize {
		c.PageSize = s.cfg.Limits.MaxPageSize
	}

	items, err := s.storage.ListCampaigns(ctx)
	if err != nil {
		lg.Error("list_campaigns_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	page := Query(items, c)

	// Записи без id исключаются из идентифицируемой выдачи,
	// не прерывая обработку остальной коллекции.
	page.Items = dropAnonymous(ctx, page.Items)

	lg.Info("list_campaigns_ok",
		slog.String("op", op),
		slog.Int("items", len(page.Items)),
		slog.Int("total", page.Total),
	)

	return &page, nil
}

// CampaignByID возвращает кампанию по идентификатору.
//
// Ошибки:
//   - ErrNotFound — если запись отсутствует (маппинг storage.ErrNotFound);
//   - прочие ошибки стораджа — обёрнутые и прокинутые наверх.
func (s *Service) CampaignByID(ctx context.Context, id string) (*models.Campaign, error) {
	const op = "service.queries.CampaignByID"

	lg := log.From(ctx)
	lg.Info("campaign_by_id_request",
		slog.String("op", op),
		slog.String("id", id),
	)

	item, err := s.storage.CampaignByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("campaign_by_id_not_found",
				slog.String("op", op),
				slog.String("id", id),
			)

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("campaign_by_id_storage_error",
			slog.String("op", op),
			slog.String("id", id),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("campaign_by_id_ok",
		slog.String("op", op),
		slog.String("id", id),
	)

	return item, nil
}

// validateCriteria проверяет пользовательские инварианты критериев.
func validateCriteria(c models.Criteria) error {
	if c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice > *c.MaxPrice {
		return ErrInvalidRange
	}

	if (c.Latitude == nil) != (c.Longitude == nil) {
		return fmt.Errorf("%w: latitude and longitude must be set together", ErrInvalidArgument)
	}

	if c.Type != nil && !c.Type.Valid() {
		return fmt.Errorf("%w: unknown campaign type %q", ErrInvalidArgument, *c.Type)
	}

	switch c.SortBy {
	case models.SortByNone, models.SortByPrice, models.SortByDate:
	default:
		return fmt.Errorf("%w: unknown sort key %q", ErrInvalidArgument, c.SortBy)
	}

	switch c.SortOrder {
	case models.SortOrderNone, models.SortAsc, models.SortDesc:
	default:
		return fmt.Errorf("%w: unknown sort order %q", ErrInvalidArgument, c.SortOrder)
	}

	return nil
}

// dropAnonymous отбрасывает записи с пустым id из идентифицируемой выдачи.
func dropAnonymous(ctx context.Context, items []models.Campaign) []models.Campaign {
	out := items[:0]
	for _, item := range items {
		if item.ID == "" {
			log.From(ctx).Warn("campaign_without_id_skipped",
				slog.String("title", item.Title),
			)
			continue
		}
		out = append(out, item)
	}
	return out
}
