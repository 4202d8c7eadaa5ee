// service содержит бизнес-логику campaigns-сервиса.
package service

import (
	"errors"

	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/config"
	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/storage"
)

var (
	// ErrNotFound — сущность отсутствует.
	// Транспорт: 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — некорректные входные аргументы.
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidRange — противоречивые ценовые границы (min > max).
	// Запрос с такими границами не исполняется: границы НЕ меняются местами,
	// потребитель обязан заблокировать отправку.
	// Транспорт: 400 (код invalid_range).
	ErrInvalidRange = errors.New("invalid price range")
)

// Service — описывает бизнес-логику campaigns-service.
type Service struct {
	storage storage.Storage
	cfg     config.Config
}

// New создает новый экземпляр Service.
func New(storage storage.Storage, cfg config.Config) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}
