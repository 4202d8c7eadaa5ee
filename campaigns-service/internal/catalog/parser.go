package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/models"
	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/service"
	"github.com/pribylovaa/go-crowdfunding/pkg/log"
)

// Parser реализует service.Parser для JSON-каталогов кампаний.
// Возвращает доменные объекты models.Campaign.
//
// Параллелизм ограничен семафором maxConc. HTTP-клиент настраивается извне
// (таймауты, прокси и т.д.).
type Parser struct {
	client  *http.Client
	maxConc int
}

// New создаёт новый парсер каталогов.
func New(client *http.Client, maxConcurrent int) *Parser {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	return &Parser{client: client, maxConc: maxConcurrent}
}

// ParseMany парсит несколько каталогов конкурентно и отдаёт результаты в канал.
// Канал закрывается после обработки всех URL.
func (p *Parser) ParseMany(ctx context.Context, urls []string) <-chan service.ParseResult {
	output := make(chan service.ParseResult)

	go func() {
		sem := make(chan struct{}, p.maxConc)

		// Закрывать output можно только после остановки всех воркеров,
		// в том числе при досрочном выходе по отмене контекста.
		defer close(output)
		defer func() {
			for i := 0; i < cap(sem); i++ {
				sem <- struct{}{}
			}
		}()

		for _, u := range urls {
			select {
			case <-ctx.Done():
				return
			default:
			}

			url := u
			sem <- struct{}{}

			go func() {
				defer func() {
					<-sem
				}()

				items, err := p.fetchOne(ctx, url)

				select {
				case output <- service.ParseResult{URL: url, Items: items, Err: err}:
				case <-ctx.Done():
				}
			}()
		}
	}()

	return output
}

// fetchOne загружает и парсит каталог по URL.
func (p *Parser) fetchOne(ctx context.Context, src string) ([]models.Campaign, error) {
	const op = "catalog.fetchOne"

	lg := log.From(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		lg.Warn("http_error",
			slog.String("op", op),
			slog.String("url", src),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: status=%d", op, resp.StatusCode)
	}

	var doc document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	output := make([]models.Campaign, 0, len(doc.Campaigns))
	for _, e := range doc.Campaigns {
		item, convErr := toCampaign(e)
		if convErr != nil {
			lg.Warn("entry_skipped",
				slog.String("op", op),
				slog.String("url", src),
				slog.String("id", e.ID),
				slog.String("err", convErr.Error()),
			)
			continue
		}

		output = append(output, item)
	}

	return output, nil
}

// toCampaign конвертирует запись каталога в доменную модель.
// Битые записи (непарные координаты, нечитаемая дата) отбрасываются здесь,
// финальные инварианты (пустой id/title) проверяет сервисный слой.
func toCampaign(e entry) (models.Campaign, error) {
	if (e.Latitude == nil) != (e.Longitude == nil) {
		return models.Campaign{}, fmt.Errorf("unpaired coordinates")
	}

	var createdAt time.Time
	if raw := strings.TrimSpace(e.CreatedAt); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return models.Campaign{}, fmt.Errorf("createdAt: %w", err)
		}
		createdAt = t.UTC()
	}

	return models.Campaign{
		ID:          strings.TrimSpace(e.ID),
		Type:        models.CampaignType(e.Type),
		Title:       strings.TrimSpace(e.Title),
		Description: strings.TrimSpace(e.Description),
		Creator: models.Creator{
			Name:     strings.TrimSpace(e.Creator.Name),
			Avatar:   e.Creator.Avatar,
			Verified: e.Creator.Verified,
		},
		Image: e.Image,
		Amount: models.Amount{
			Raised:   e.Amount.Raised,
			Currency: e.Amount.Currency,
		},
		Percentage: e.Percentage,
		Location:   strings.TrimSpace(e.Location),
		Latitude:   e.Latitude,
		Longitude:  e.Longitude,
		Supporters: e.Supporters,
		CreatedAt:  createdAt,
	}, nil
}
