// clients содержит REST-клиенты апстрим-сервисов (campaigns, favorites).
//
// Общие правила:
//   - отсутствующие/пустые критерии в query-параметры не попадают
//     (пустая строка — не то же самое, что отсутствие параметра);
//   - X-Request-Id из контекста прокидывается в апстрим;
//   - сетевые ошибки и 5xx маппятся в ErrUpstreamUnavailable,
//     истёкший дедлайн — в ErrUpstreamTimeout.
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apierrors "github.com/pribylovaa/go-crowdfunding/explore-service/internal/errors"
	"github.com/pribylovaa/go-crowdfunding/pkg/httpmw"
)

// Config — адреса и HTTP-клиент апстримов.
type Config struct {
	CampaignsURL string
	FavoritesURL string
	HTTPClient   *http.Client
}

// Clients агрегирует клиентов апстримов.
type Clients struct {
	Campaigns *CampaignsClient
	Favorites *FavoritesClient
}

// New создаёт клиентов апстримов.
func New(cfg Config) (*Clients, error) {
	if cfg.CampaignsURL == "" {
		return nil, fmt.Errorf("clients: empty campaigns url")
	}
	if cfg.FavoritesURL == "" {
		return nil, fmt.Errorf("clients: empty favorites url")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Clients{
		Campaigns: &CampaignsClient{base: cfg.CampaignsURL, http: httpClient},
		Favorites: &FavoritesClient{base: cfg.FavoritesURL, http: httpClient},
	}, nil
}

// do выполняет запрос с прокинутым X-Request-Id и единым маппингом ошибок
// транспортного уровня. Тело успешного ответа декодирует в out (если задан).
func do(ctx context.Context, client *http.Client, req *http.Request, out any) error {
	if rid := httpmw.RequestIDFrom(ctx); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s %s", apierrors.ErrUpstreamTimeout, req.Method, req.URL.Path)
		}
		return fmt.Errorf("%w: %v", apierrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", apierrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode: %v", apierrors.ErrUpstreamUnavailable, err)
		}
	}

	return nil
}

// decodeAPIError разбирает конверт ошибки апстрима и маппит его код
// в доменные sentinel-ошибки.
func decodeAPIError(resp *http.Response) error {
	var body apierrors.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: status=%d", apierrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	switch body.Error.Code {
	case "invalid_range":
		return apierrors.ErrInvalidRange
	case "invalid_argument":
		return apierrors.ErrInvalidArgument
	case "not_found":
		return apierrors.ErrNotFound
	default:
		return fmt.Errorf("%w: status=%d code=%s", apierrors.ErrUpstreamUnavailable, resp.StatusCode, body.Error.Code)
	}
}
