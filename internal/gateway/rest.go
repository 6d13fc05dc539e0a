package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-institute-sync/internal/config"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
	"github.com/MKhiriev/go-institute-sync/models"
)

const restPathPrefix = "/rest/v1/"

// RESTGateway reads tables through a PostgREST-style HTTP API and receives
// changes through the hosted realtime websocket.
type RESTGateway struct {
	client   *utils.HTTPClient
	realtime *RealtimeClient
	logger   *logger.Logger
}

// NewRESTGateway constructs a [RESTGateway] from cfg. The realtime endpoint
// is derived from cfg.URL when cfg.RealtimeURL is empty.
//
// Returns an error if cfg.URL is empty or cannot be parsed.
func NewRESTGateway(cfg config.Gateway, log *logger.Logger) (*RESTGateway, error) {
	baseURL, err := normalizeBaseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway url: %w", err)
	}

	realtimeURL := cfg.RealtimeURL
	if realtimeURL == "" {
		realtimeURL, err = deriveRealtimeURL(baseURL, cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("invalid gateway realtime url: %w", err)
		}
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.
			SetHeader("apikey", cfg.APIKey).
			SetAuthToken(cfg.APIKey)
	}

	return &RESTGateway{
		client:   client,
		realtime: NewRealtimeClient(realtimeURL, cfg.APIKey, log),
		logger:   log,
	}, nil
}

// Select implements [Source].
func (g *RESTGateway) Select(ctx context.Context, table string, ordering *models.Ordering) (models.Snapshot, error) {
	if err := validIdentifier(table); err != nil {
		return nil, err
	}

	req := g.client.R().
		SetContext(ctx).
		SetQueryParam("select", "*")
	if !ordering.IsZero() {
		if err := validIdentifier(ordering.Field); err != nil {
			return nil, fmt.Errorf("order field: %w", err)
		}
		req.SetQueryParam("order", ordering.String())
	}

	resp, err := req.Get(restPathPrefix + table)
	if err != nil {
		g.logger.Err(err).Str("func", "RESTGateway.Select").Str("table", table).Msg("select request failed")
		return nil, fmt.Errorf("select %s request: %w", table, err)
	}
	if err = mapHTTPError(resp); err != nil {
		g.logger.Err(err).Str("func", "RESTGateway.Select").Str("table", table).Int("status", resp.StatusCode()).Msg("select rejected")
		return nil, fmt.Errorf("select %s: %w", table, err)
	}

	rows := models.Snapshot{}
	body := strings.TrimSpace(string(resp.Body()))
	if body == "" || body == "null" {
		return rows, nil
	}
	if err = json.Unmarshal([]byte(body), &rows); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", table, err)
	}
	if rows == nil {
		rows = models.Snapshot{}
	}
	return rows, nil
}

// Subscribe implements [Source] through the realtime websocket.
func (g *RESTGateway) Subscribe(ctx context.Context, channel, table string, filter models.EventFilter, onChange ChangeHandler) (Subscription, error) {
	return g.realtime.Subscribe(ctx, channel, table, filter, onChange)
}

// Close shuts down the realtime connection.
func (g *RESTGateway) Close() error {
	return g.realtime.Close()
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func deriveRealtimeURL(baseURL, apiKey string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/realtime/v1/websocket"

	q := url.Values{}
	if apiKey != "" {
		q.Set("apikey", apiKey)
	}
	q.Set("vsn", "1.0.0")
	u.RawQuery = q.Encode()

	return u.String(), nil
}
