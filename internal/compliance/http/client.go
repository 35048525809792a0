package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/abplan/abplan-backend/internal/compliance/domain"
)

// EngineClient talks to the NF C 15-100 compliance engine.
type EngineClient struct {
	httpClient *resty.Client
	limiter    *rate.Limiter
}

// NewEngineClient creates a client allowing ratePerSecond calls with the
// given burst. A non-positive rate disables limiting.
func NewEngineClient(baseURL string, timeout time.Duration, ratePerSecond float64, burst int) *EngineClient {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &EngineClient{
		httpClient: client,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// ValidateRoomEquipment checks each room's equipment against the standard.
func (c *EngineClient) ValidateRoomEquipment(ctx context.Context, req domain.ValidationRequest) (*domain.ValidationResponse, error) {
	var out domain.ValidationResponse
	if err := c.do(ctx, "validate room equipment", http.MethodPost, "/validate/room-equipment", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateGlobalWithDimensioning validates and sizes the electrical panel.
func (c *EngineClient) ValidateGlobalWithDimensioning(ctx context.Context, req domain.ValidationRequest) (*domain.ValidationResponse, error) {
	var out domain.ValidationResponse
	if err := c.do(ctx, "validate with dimensioning", http.MethodPost, "/validate/global-with-dimensioning", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *EngineClient) Health(ctx context.Context) (*domain.EngineHealth, error) {
	var out domain.EngineHealth
	if err := c.do(ctx, "health", http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do decodes the body itself: the engine does not always label its JSON.
func (c *EngineClient) do(ctx context.Context, op, method, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.EngineError{Op: op, Detail: err.Error()}
	}

	req := c.httpClient.R().SetContext(ctx)
	if in != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(in)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return &domain.EngineError{Op: op, Detail: err.Error()}
	}

	if !resp.IsSuccess() {
		return &domain.EngineError{Op: op, StatusCode: resp.StatusCode(), Detail: errorDetail(resp.StatusCode(), resp.Body())}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &domain.EngineError{Op: op, StatusCode: resp.StatusCode(), Detail: fmt.Sprintf("invalid response: %v", err)}
	}
	return nil
}

// errorDetail extracts a readable message from an engine error body. FastAPI
// puts it under detail, other proxies under message.
func errorDetail(status int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return http.StatusText(status)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		for _, key := range []string{"detail", "message"} {
			raw, ok := obj[key]
			if !ok {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				return s
			}
			return string(raw)
		}
		return text
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}
	return text
}
