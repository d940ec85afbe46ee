package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RenderEntry is one time-slot row sent to the render service.
type RenderEntry struct {
	TimeSlot string `json:"timeSlot"`
	Content  string `json:"content"`
}

// RenderRequest is the render service payload for one locked shift.
type RenderRequest struct {
	SummaryID       string        `json:"summaryId"`
	CareHomeName    string        `json:"carehomeName"`
	ServiceUserName string        `json:"serviceUserName"`
	StaffName       string        `json:"staffName"`
	Date            string        `json:"date"`
	Shift           string        `json:"shift"`
	ShiftWindow     string        `json:"shiftWindow"`
	Entries         []RenderEntry `json:"entries"`
}

// DocumentRenderer produces a PDF for a locked shift's content.
type DocumentRenderer interface {
	RenderShiftLog(ctx context.Context, req RenderRequest) ([]byte, error)
}

// RenderClient calls the external PDF render service.
type RenderClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewRenderClient(baseURL string, timeout time.Duration, logger *zap.Logger) *RenderClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/pdf")

	return &RenderClient{
		httpClient: client,
		logger:     logger,
	}
}

var _ DocumentRenderer = (*RenderClient)(nil)

// RenderShiftLog posts the shift content and returns the PDF bytes.
func (c *RenderClient) RenderShiftLog(ctx context.Context, req RenderRequest) ([]byte, error) {
	c.logger.Info("calling render service",
		zap.String("summary_id", req.SummaryID),
		zap.String("shift", req.Shift),
		zap.Int("entries", len(req.Entries)),
	)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		Post("/render/shift-log")
	if err != nil {
		return nil, fmt.Errorf("render request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("render service returned status %d: %s", resp.StatusCode(), resp.String())
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("render service returned an empty document")
	}
	return body, nil
}
