package http

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/abplan/abplan-backend/internal/analysis/domain"
)

// EngineClient calls the plan analysis engine.
type EngineClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewEngineClient(baseURL string, timeout time.Duration, logger *zap.Logger) *EngineClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &EngineClient{httpClient: client, logger: logger}
}

// Analyze sends the floor plan images and returns the detected rooms.
func (c *EngineClient) Analyze(ctx context.Context, images []string) ([]domain.DetectedRoom, error) {
	var out domain.AnalyzeResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(domain.AnalyzeRequest{Images: images}).
		SetResult(&out).
		Post("/analyze")
	if err != nil {
		c.logger.Error("plan analysis call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrAnalysisUnavailable, err)
	}
	if resp.IsError() {
		c.logger.Error("plan analysis returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrAnalysisUnavailable, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	c.logger.Info("plan analysed", zap.Int("images", len(images)), zap.Int("rooms", len(out.Rooms)))
	return out.Rooms, nil
}
