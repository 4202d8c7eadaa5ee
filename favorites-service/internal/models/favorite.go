// Package models содержит доменные сущности favorites-сервиса.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite — запись «кампания в избранном у владельца».
//
// Важно:
//   - OwnerID — UUID владельца (приходит из заголовка транспорта);
//   - CampaignID — внешний идентификатор кампании (campaigns-service);
//   - CreatedAt — момент добавления; порядок выдачи ListByOwner — по нему
//     (insertion order: created_at ASC).
type Favorite struct {
	OwnerID    uuid.UUID
	CampaignID string
	CreatedAt  time.Time
}
