// storage определяет контракты доступа к БД для campaigns-service.
package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
)

// CampaignStorage описывает операции над сущностью models.Campaign.
type CampaignStorage interface {
	// SaveCampaigns сохраняет пачку кампаний (upsert по id).
	// Записи с пустым id должны быть отсеяны вызывающей стороной.
	SaveCampaigns(ctx context.Context, items []models.Campaign) error
	// ListCampaigns возвращает активную коллекцию целиком в детерминированном
	// порядке (created_at ASC, id ASC). Фильтрация/сортировка/нарезка на
	// страницы выполняется сервисным слоем in-memory: это гарантирует
	// фиксированный порядок стадий и стабильность сортировки.
	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
	// CampaignByID возвращает кампанию по строковому идентификатору.
	// Если запись не найдена — ErrNotFound.
	CampaignByID(ctx context.Context, id string) (*models.Campaign, error)
}

// Storage задаёт контракт доступа к хранилищу для campaigns-сервиса.
type Storage interface {
	CampaignStorage
	Close()
}
