package httpmw

import (
	"log/slog"
	"net/http"
	"time"

	logctx "github.com/pribylovaa/go-crowdfunding/pkg/log"
)

// Logging кладёт request-scoped логгер (с request_id, если заголовок пришёл)
// в контекст запроса и пишет одну итоговую запись на запрос:
// метод, путь, статус, длительность, байты ответа.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := l
			if rid := r.Header.Get(requestIDHeader); rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}
			r = r.WithContext(logctx.Into(r.Context(), reqLogger))

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			// Запись пишем логгером из контекста: хендлеры могли обогатить его
			// дополнительными атрибутами.
			logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelInfo, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", sw.count),
			)
		})
	}
}
