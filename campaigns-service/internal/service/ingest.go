package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/models"
	"github.com/pribylovaa/go-crowdfunding/pkg/log"
)

// StartIngest запускает периодический опрос каталогов из конфига s.cfg.Catalog.
//
// Особенности:
//   - разбор выполняется через переданный Parser, сохранение — через
//     s.storage.SaveCampaigns;
//   - останавливается по ctx.
func (s *Service) StartIngest(ctx context.Context, parser Parser) error {
	const op = "service/ingest/StartIngest"

	src := s.cfg.Catalog.Sources
	interval := s.cfg.Catalog.Interval

	if len(src) == 0 {
		return fmt.Errorf("%s: no sources configured", op)
	}

	lg := log.From(ctx)
	lg.Info("ingest_start",
		slog.String("op", op),
		slog.Int("sources", len(src)),
		slog.Duration("interval", interval),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := s.ingestOnce(ctx, parser, src); err != nil {
		lg.Warn("ingest_tick_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			lg.Info("ingest_stop", slog.String("op", op))
			return nil
		case <-ticker.C:
			if err := s.ingestOnce(ctx, parser, src); err != nil {
				lg.Warn("ingest_tick_error",
					slog.String("op", op),
					slog.String("err", err.Error()),
				)
			}
		}
	}
}

// ingestOnce — один проход: разбор всех источников, валидация, сохранение.
func (s *Service) ingestOnce(ctx context.Context, parser Parser, urls []string) error {
	const op = "service/ingest/ingestOnce"

	lg := log.From(ctx)
	now := time.Now().UTC()

	output := parser.ParseMany(ctx, urls)

	var total, sourcesOK, sourcesErr int
	var batch []models.Campaign

	for result := range output {
		if result.Err != nil {
			sourcesErr++
			lg.Warn("parse_error",
				slog.String("op", op),
				slog.String("url", result.URL),
				slog.String("err", result.Err.Error()),
			)
			continue
		}

		for _, item := range result.Items {
			if campaign, ok := finalizeCampaign(item, now); ok {
				batch = append(batch, campaign)
			}
		}

		total += len(result.Items)
		sourcesOK++
	}

	if len(batch) == 0 {
		lg.Info("ingest_empty",
			slog.String("op", op),
			slog.Int("sources_ok", sourcesOK),
			slog.Int("sources_err", sourcesErr),
		)
		return nil
	}

	if err := s.storage.SaveCampaigns(ctx, batch); err != nil {
		return fmt.Errorf("%s: save_campaigns: %w", op, err)
	}

	lg.Info("ingest_saved",
		slog.String("op", op),
		slog.Int("total_items", total),
		slog.Int("saved", len(batch)),
		slog.Int("sources_ok", sourcesOK),
		slog.Int("sources_err", sourcesErr),
	)

	return nil
}
