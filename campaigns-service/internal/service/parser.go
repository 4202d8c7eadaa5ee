package service

import (
	"context"

	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/models"
)

// Parser описывает абстракцию источника каталога кампаний (JSON-фид и т.п.),
// который опрашивает несколько источников и возвращает доменные объекты.
//
// Требования к реализации:
//  1. координаты в возвращаемых items валидны только парой;
//  2. CreatedAt — в UTC, допускается нулевое значение;
//  3. реализация обязана уважать ctx (отмена/таймауты).
//
// ParseMany должен отправить по одному ParseResult на каждый URL и затем
// закрыть канал. Порядок результатов не гарантируется.
type Parser interface {
	ParseMany(ctx context.Context, urls []string) <-chan ParseResult
}

// ParseResult — результат разбора одного каталога.
// Если Err != nil, Items может быть неполным или пустым.
type ParseResult struct {
	URL   string
	Items []models.Campaign
	Err   error
}
