package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/models"
	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage — реализация хранилища кампаний поверх PostgreSQL (pgx).
type Storage struct {
	db *pgxpool.Pool
}

// New создает новое подключение к PostgreSQL.
func New(ctx context.Context, dbURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.db.Close()
}

// Проверка на соответствие интерфейсу Storage.
var _ storage.Storage = (*Storage)(nil)

const campaignColumns = `id, type, title, description, creator_name, creator_avatar, creator_verified,
	image, amount_raised, amount_currency, percentage, location, latitude, longitude, supporters, created_at`

// SaveCampaigns сохраняет пачку кампаний с upsert по id.
//
// Политика обновления:
//   - сумма/процент/подписи — всегда из свежего каталога;
//   - title/description/image — обновляются, только если пришли непустыми;
//   - created_at — не меняется (дата создания кампании неизменна).
func (s *Storage) SaveCampaigns(ctx context.Context, items []models.Campaign) error {
	const op = "storage.postgres.SaveCampaigns"

	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
		INSERT INTO campaigns (id, type, title, description, creator_name, creator_avatar, creator_verified,
			image, amount_raised, amount_currency, percentage, location, latitude, longitude, supporters, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE
		SET
		title = CASE WHEN EXCLUDED.title <> '' THEN EXCLUDED.title ELSE campaigns.title END,
		description = CASE WHEN EXCLUDED.description <> '' THEN EXCLUDED.description ELSE campaigns.description END,
		creator_name = EXCLUDED.creator_name,
		creator_avatar = EXCLUDED.creator_avatar,
		creator_verified = EXCLUDED.creator_verified,
		image = CASE WHEN EXCLUDED.image <> '' THEN EXCLUDED.image ELSE campaigns.image END,
		amount_raised = EXCLUDED.amount_raised,
		amount_currency = EXCLUDED.amount_currency,
		percentage = EXCLUDED.percentage,
		location = EXCLUDED.location,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		supporters = EXCLUDED.supporters
		`, item.ID, string(item.Type), item.Title, item.Description,
			item.Creator.Name, item.Creator.Avatar, item.Creator.Verified,
			item.Image, item.Amount.Raised, item.Amount.Currency, item.Percentage,
			item.Location, item.Latitude, item.Longitude, item.Supporters,
			item.CreatedAt.UTC())
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("%s: batch item %d: %w", op, i, err)
		}
	}

	return nil
}

// ListCampaigns возвращает активную коллекцию целиком.
// Порядок фиксирован: created_at ASC, id ASC — от него зависит стабильность
// сортировки в сервисном слое.
func (s *Storage) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	const op = "storage.postgres.ListCampaigns"

	rows, err := s.db.Query(ctx, `
	SELECT `+campaignColumns+`
	FROM campaigns
	ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.Campaign
	for rows.Next() {
		item, scanErr := scanCampaign(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, scanErr)
		}

		items = append(items, *item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, rows.Err())
	}

	return items, nil
}

// CampaignByID возвращает кампанию по идентификатору.
// Если запись не найдена — storage.ErrNotFound.
func (s *Storage) CampaignByID(ctx context.Context, id string) (*models.Campaign, error) {
	const op = "storage.postgres.CampaignByID"

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	row := s.db.QueryRow(ctx, `
	SELECT `+campaignColumns+`
	FROM campaigns
	WHERE id = $1
	`, id)

	item, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// scanCampaign — общий скан строки campaigns в доменную модель.
func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var (
		item     models.Campaign
		rawType  string
		location *string
	)

	if err := row.Scan(
		&item.ID,
		&rawType,
		&item.Title,
		&item.Description,
		&item.Creator.Name,
		&item.Creator.Avatar,
		&item.Creator.Verified,
		&item.Image,
		&item.Amount.Raised,
		&item.Amount.Currency,
		&item.Percentage,
		&location,
		&item.Latitude,
		&item.Longitude,
		&item.Supporters,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}

	item.Type = models.CampaignType(rawType)
	if location != nil {
		item.Location = *location
	}

	// Нормализация в UTC.
	item.CreatedAt = item.CreatedAt.UTC()

	return &item, nil
}
