package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-crowdfunding/favorites-service/internal/models"
	"github.com/pribylovaa/go-crowdfunding/favorites-service/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Проверка на соответствие интерфейсу Storage.
var _ storage.Storage = (*Mongo)(nil)

// favoriteDoc — документ коллекции favorites.
// owner_id хранится строкой (канонический вид UUID) — так пара
// (owner_id, campaign_id) остаётся читаемой в уникальном индексе.
type favoriteDoc struct {
	OwnerID    string    `bson:"owner_id"`
	CampaignID string    `bson:"campaign_id"`
	CreatedAt  time.Time `bson:"created_at"`
}

// AddFavorite добавляет кампанию в избранное владельца.
// Повторное добавление — no-op: возвращает false без ошибки.
// Идемпотентность обеспечивает upsert по уникальной паре (owner_id, campaign_id);
// created_at выставляется только при реальной вставке.
func (m *Mongo) AddFavorite(ctx context.Context, fav models.Favorite) (bool, error) {
	const op = "storage/mongo/AddFavorite"

	campaignID := strings.TrimSpace(fav.CampaignID)

	// MongoDB DateTime хранит миллисекунды.
	createdAt := fav.CreatedAt.UTC().Truncate(time.Millisecond)
	if createdAt.IsZero() {
		createdAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	filter := bson.D{
		{Key: "owner_id", Value: fav.OwnerID.String()},
		{Key: "campaign_id", Value: campaignID},
	}
	update := bson.D{
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "owner_id", Value: fav.OwnerID.String()},
			{Key: "campaign_id", Value: campaignID},
			{Key: "created_at", Value: createdAt},
		}},
	}

	res, err := m.favorites.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.UpsertedCount > 0, nil
}

// RemoveFavorite убирает кампанию из избранного владельца.
// Отсутствующая запись — no-op: возвращает false без ошибки.
func (m *Mongo) RemoveFavorite(ctx context.Context, ownerID uuid.UUID, campaignID string) (bool, error) {
	const op = "storage/mongo/RemoveFavorite"

	filter := bson.D{
		{Key: "owner_id", Value: ownerID.String()},
		{Key: "campaign_id", Value: strings.TrimSpace(campaignID)},
	}

	res, err := m.favorites.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount > 0, nil
}

// ListByOwner возвращает избранное владельца в порядке добавления.
// Сортировка: created_at ASC, campaign_id ASC (тай-брейк для записей
// с одинаковым временем).
func (m *Mongo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Favorite, error) {
	const op = "storage/mongo/ListByOwner"

	filter := bson.D{{Key: "owner_id", Value: ownerID.String()}}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "campaign_id", Value: 1}})

	cur, err := m.favorites.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []models.Favorite
	for cur.Next(ctx) {
		var doc favoriteDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		owner, err := uuid.Parse(doc.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("%s: owner_id %q: %w", op, doc.OwnerID, err)
		}

		items = append(items, models.Favorite{
			OwnerID:    owner,
			CampaignID: doc.CampaignID,
			CreatedAt:  doc.CreatedAt.UTC(),
		})
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}
