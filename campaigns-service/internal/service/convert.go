package service

import (
	"strings"
	"time"

	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/models"
)

// finalizeCampaign доводит запись каталога до инвариантов домена:
//   - ID/Title обязательны (после TrimSpace) — иначе запись отбрасывается;
//   - Type должен быть известен — иначе запись отбрасывается;
//   - Amount.Raised < 0 и Percentage вне [0,100] — запись отбрасывается;
//   - непарные координаты обнуляются целиком;
//   - Supporters имеет смысл только у петиций — у сборов обнуляется;
//   - CreatedAt := CreatedAt || nowUTC (UTC).
//
// Возвращает (кампания, ok=false если запись следует отбросить).
func finalizeCampaign(item models.Campaign, nowUTC time.Time) (models.Campaign, bool) {
	item.ID = strings.TrimSpace(item.ID)
	item.Title = strings.TrimSpace(item.Title)

	if item.ID == "" || item.Title == "" {
		return models.Campaign{}, false
	}

	if !item.Type.Valid() {
		return models.Campaign{}, false
	}

	if item.Amount.Raised < 0 || item.Percentage < 0 || item.Percentage > 100 {
		return models.Campaign{}, false
	}

	if (item.Latitude == nil) != (item.Longitude == nil) {
		item.Latitude, item.Longitude = nil, nil
	}

	if item.Type != models.TypePetition {
		item.Supporters = nil
	}

	if item.CreatedAt.IsZero() {
		item.CreatedAt = nowUTC
	} else {
		item.CreatedAt = item.CreatedAt.UTC()
	}

	return item, true
}
