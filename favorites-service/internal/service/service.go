// service содержит бизнес-логику favorites-сервиса.
package service

import (
	"errors"

	"github.com/pribylovaa/go-crowdfunding/favorites-service/internal/config"
	"github.com/pribylovaa/go-crowdfunding/favorites-service/internal/storage"
)

var (
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInternal — внутренняя ошибка (сторадж/БД/контекст/и т.д.).
	ErrInternal = errors.New("internal")
)

// Service — описывает бизнес-логику favorites-service.
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
