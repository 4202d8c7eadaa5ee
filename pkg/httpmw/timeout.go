package httpmw

import (
	"context"
	"net/http"
	"time"
)

// Timeout ограничивает обработку запроса дедлайном d поверх его контекста.
// Дедлайн, выставленный раньше по цепочке, сохраняется как есть.
// При d <= 0 мидлвар не оборачивает handler и цепочка остаётся прежней.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
