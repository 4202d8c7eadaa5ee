// storage описывает контракт хранилища favorites-сервиса.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-crowdfunding/favorites-service/internal/models"
)

// ErrNotFound — запись отсутствует.
var ErrNotFound = errors.New("not found")

// FavoritesStorage — операции над избранным.
//
// Контракт идемпотентности:
//   - AddFavorite повторной записи не создаёт; возвращает true, если запись
//     была реально добавлена, и false, если уже существовала;
//   - RemoveFavorite отсутствующей записи не считает ошибкой; возвращает
//     true, если запись была реально удалена.
//
// ListByOwner возвращает записи владельца в порядке добавления
// (created_at ASC, тай-брейк по campaign_id).
type FavoritesStorage interface {
	AddFavorite(ctx context.Context, fav models.Favorite) (bool, error)
	RemoveFavorite(ctx context.Context, ownerID uuid.UUID, campaignID string) (bool, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Favorite, error)
}

// Storage — полный контракт хранилища.
type Storage interface {
	FavoritesStorage

	Close(ctx context.Context) error
}
