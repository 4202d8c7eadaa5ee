// pagination вычисляет окно страничных ссылок для элементов управления выдачей.
package pagination

import "strconv"

// maxVisible — максимум страниц без многоточий.
const maxVisible = 7

// Item — элемент окна: номер страницы либо маркер-многоточие.
type Item struct {
	Page     int
	Ellipsis bool
}

// Label возвращает подпись элемента для UI.
func (i Item) Label() string {
	if i.Ellipsis {
		return "…"
	}
	return strconv.Itoa(i.Page)
}

func page(n int) Item { return Item{Page: n} }
func ellipsis() Item  { return Item{Ellipsis: true} }

// Windows отображает пару (currentPage, totalPages) в упорядоченный список
// подписей страниц.
//
// Правила:
//   - totalPages <= 1 — nil: элементы управления не рендерятся вовсе;
//   - totalPages <= 7 — все страницы подряд без многоточий;
//   - иначе три зоны:
//     начало (currentPage <= 3): 1..4, многоточие, последние 3;
//     конец (currentPage >= totalPages-3): первые 3, многоточие, последние 4;
//     середина: 1, многоточие, currentPage-1..currentPage+1, многоточие, последняя.
//
// Два подряд многоточия и повторяющиеся номера невозможны по построению.
// currentPage за пределами [1, totalPages] нормализуется к границе.
func Windows(currentPage, totalPages int) []Item {
	if totalPages <= 1 {
		return nil
	}

	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	if totalPages <= maxVisible {
		items := make([]Item, 0, totalPages)
		for n := 1; n <= totalPages; n++ {
			items = append(items, page(n))
		}
		return items
	}

	switch {
	case currentPage <= 3:
		// Начало: 1..4 … последние 3.
		items := make([]Item, 0, 8)
		for n := 1; n <= 4; n++ {
			items = append(items, page(n))
		}
		items = append(items, ellipsis())
		for n := totalPages - 2; n <= totalPages; n++ {
			items = append(items, page(n))
		}
		return items

	case currentPage >= totalPages-3:
		// Конец: первые 3 … последние 4.
		items := make([]Item, 0, 8)
		for n := 1; n <= 3; n++ {
			items = append(items, page(n))
		}
		items = append(items, ellipsis())
		for n := totalPages - 3; n <= totalPages; n++ {
			items = append(items, page(n))
		}
		return items

	default:
		// Середина: 1 … cur-1..cur+1 … последняя.
		items := make([]Item, 0, 7)
		items = append(items, page(1), ellipsis())
		for n := currentPage - 1; n <= currentPage+1; n++ {
			items = append(items, page(n))
		}
		items = append(items, ellipsis(), page(totalPages))
		return items
	}
}
