// errors стандартизирует ответы об ошибках HTTP-слоя explore-service.
// На вход он принимает доменную ошибку (sentinel-ошибки внутренних слоёв
// и клиентов апстримов), а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	// ErrInvalidArgument — битые входные параметры запроса.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidRange — противоречивые ценовые границы (min > max).
	// Запрос не исполняется, границы НЕ меняются местами.
	ErrInvalidRange = errors.New("invalid price range")
	// ErrNotFound — сущность отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrNotHydrated — сессия ещё не гидрирована: запросы выдачи запрещены,
	// пока не загружено сохранённое состояние.
	ErrNotHydrated = errors.New("session not hydrated")
	// ErrUpstreamUnavailable — апстрим-сервис недоступен (сеть/5xx).
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamTimeout — апстрим не ответил в срок.
	ErrUpstreamTimeout = errors.New("upstream timeout")
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный ответ.
//
// Маппинг:
//   - ErrInvalidRange -> 400 (код invalid_range, отдельный от invalid_argument:
//     фронт блокирует отправку формы, а не показывает общую ошибку);
//   - ErrInvalidArgument -> 400;
//   - ErrNotFound -> 404;
//   - ErrNotHydrated -> 409;
//   - ErrUpstreamUnavailable -> 502;
//   - ErrUpstreamTimeout -> 504;
//   - прочее (включая nil) -> 500/internal.
func ToHTTP(err error) (int, ErrorResponse) {
	status := http.StatusInternalServerError
	code, msg := "internal", "internal error"

	switch {
	case err == nil:
		// Программная ошибка вызова: не маскируем баг кодом 200.
	case errors.Is(err, ErrInvalidRange):
		status, code, msg = http.StatusBadRequest, "invalid_range", "min price must not exceed max price"
	case errors.Is(err, ErrInvalidArgument):
		status, code, msg = http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, ErrNotFound):
		status, code, msg = http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, ErrNotHydrated):
		status, code, msg = http.StatusConflict, "not_hydrated", "session state is not hydrated yet"
	case errors.Is(err, ErrUpstreamUnavailable):
		status, code, msg = http.StatusBadGateway, "upstream_unavailable", "upstream unavailable"
	case errors.Is(err, ErrUpstreamTimeout):
		status, code, msg = http.StatusGatewayTimeout, "upstream_timeout", "upstream timeout"
	}

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
