package service

import (
	"sort"
	"strings"

	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/models"
)

// Query — чистый конвейер выборки кампаний.
//
// Стадии применяются строго в этом порядке, каждая — к выходу предыдущей
// (порядок влияет на корректность, а не только на стиль):
//  1. поиск — регистронезависимое вхождение подстроки в Title ИЛИ Description;
//  2. тип — точное равенство;
//  3. близость — прямоугольник ±1° по обеим координатам (намеренное упрощение,
//     НЕ геодезическое расстояние); кампании без координат отсеиваются;
//  4. цена — Amount.Raised в границах [MinPrice, MaxPrice] (каждая проверяется,
//     только если задана);
//  5. сортировка — ровно один ключ (price|date), стабильная: при равных
//     ключах исходный относительный порядок сохраняется;
//  6. нарезка на страницы — start=(page-1)*pageSize; выход за границы даёт
//     пустую страницу, а не ошибку.
//
// Total считается после стадий 1–4 и не зависит от сортировки.
func Query(items []models.Campaign, c models.Criteria) models.Page {
	filtered := applyFilters(items, c)

	total := len(filtered)

	applySort(filtered, c)

	page, pageSize := c.Page, c.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize

	var sliced []models.Campaign
	switch {
	case start >= total:
		sliced = nil
	case end > total:
		sliced = filtered[start:total]
	default:
		sliced = filtered[start:end]
	}

	return models.Page{
		Items:    sliced,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}

// applyFilters — стадии 1–4; возвращает новый слайс, вход не мутируется.
func applyFilters(items []models.Campaign, c models.Criteria) []models.Campaign {
	filtered := make([]models.Campaign, 0, len(items))
	filtered = append(filtered, items...)

	if search := strings.ToLower(strings.TrimSpace(c.Search)); search != "" {
		filtered = keep(filtered, func(item models.Campaign) bool {
			return strings.Contains(strings.ToLower(item.Title), search) ||
				strings.Contains(strings.ToLower(item.Description), search)
		})
	}

	if c.Type != nil {
		filtered = keep(filtered, func(item models.Campaign) bool {
			return item.Type == *c.Type
		})
	}

	if c.HasLocation() {
		lat, lng := *c.Latitude, *c.Longitude
		filtered = keep(filtered, func(item models.Campaign) bool {
			return item.HasCoordinates() &&
				abs(*item.Latitude-lat) <= 1 &&
				abs(*item.Longitude-lng) <= 1
		})
	}

	if c.MinPrice != nil || c.MaxPrice != nil {
		filtered = keep(filtered, func(item models.Campaign) bool {
			if c.MinPrice != nil && item.Amount.Raised < *c.MinPrice {
				return false
			}
			if c.MaxPrice != nil && item.Amount.Raised > *c.MaxPrice {
				return false
			}
			return true
		})
	}

	return filtered
}

// applySort — стадия 5. Сортировка стабильна и не меняет состав/Total.
func applySort(items []models.Campaign, c models.Criteria) {
	var less func(a, b models.Campaign) bool

	switch c.SortBy {
	case models.SortByPrice:
		less = func(a, b models.Campaign) bool {
			return a.Amount.Raised < b.Amount.Raised
		}
	case models.SortByDate:
		less = func(a, b models.Campaign) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	default:
		return
	}

	desc := c.SortOrder == models.SortDesc

	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// keep — фильтрация in-place без переаллокаций.
func keep(items []models.Campaign, pred func(models.Campaign) bool) []models.Campaign {
	out := items[:0]
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
