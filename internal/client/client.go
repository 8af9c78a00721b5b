package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"runcoach/internal/models"
)

// APIError 服务端返回的 {"error": "..."} 或非 2xx 状态
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("runcoach API error: %s (status: %d)", e.Message, e.StatusCode)
}

type errorBody struct {
	Error string `json:"error"`
}

// Client runcoach REST API 客户端
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient 创建客户端；retries 仅对网络错误与 5xx 生效
func NewClient(baseURL string, timeout time.Duration, retries int, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeader("Accept", "application/json")

	return &Client{httpClient: httpClient, logger: logger}
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(out).
		SetError(&errorBody{}).
		Get(path)
	return c.check(path, resp, err)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(out).
		SetError(&errorBody{})
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Post(path)
	return c.check(path, resp, err)
}

func (c *Client) check(path string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Error("runcoach API call failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if e, ok := resp.Error().(*errorBody); ok && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}
	return nil
}

// Health GET /healthz
func (c *Client) Health(ctx context.Context) error {
	var out map[string]string
	if err := c.get(ctx, "/healthz", nil, &out); err != nil {
		return err
	}
	if out["status"] != "ok" {
		return fmt.Errorf("unexpected health status: %q", out["status"])
	}
	return nil
}

// History GET /api/history
func (c *Client) History(ctx context.Context, page, size int) (models.HistoryPage, error) {
	var out models.HistoryPage
	err := c.get(ctx, "/api/history", map[string]string{
		"page": strconv.Itoa(page),
		"size": strconv.Itoa(size),
	}, &out)
	return out, err
}

// Analysis GET /api/analysis/{sessionId}
func (c *Client) Analysis(ctx context.Context, sessionID string) (models.AnalysisReport, error) {
	var out models.AnalysisReport
	err := c.get(ctx, AnalysisPath(sessionID), nil, &out)
	return out, err
}

// AnalysisPath /api/analysis/{sessionId}，sessionId 做路径转义
func AnalysisPath(sessionID string) string {
	return "/api/analysis/" + url.PathEscape(sessionID)
}

// AnalysisExportPath /api/analysis/{sessionId}/export
func AnalysisExportPath(sessionID string) string {
	return AnalysisPath(sessionID) + "/export"
}

// Feedback GET /api/feedback
func (c *Client) Feedback(ctx context.Context) (models.FeedbackEvent, error) {
	var out models.FeedbackEvent
	err := c.get(ctx, "/api/feedback", nil, &out)
	return out, err
}

// Status GET /api/collection/status
func (c *Client) Status(ctx context.Context) (models.CollectionStatus, error) {
	var out models.CollectionStatus
	err := c.get(ctx, "/api/collection/status", nil, &out)
	return out, err
}

// StartCollection POST /api/collection/start
func (c *Client) StartCollection(ctx context.Context, isRealSensor bool) (models.CommandAck, error) {
	var out models.CommandAck
	err := c.post(ctx, "/api/collection/start", map[string]bool{"isRealSensor": isRealSensor}, &out)
	return out, err
}

// StopCollection POST /api/collection/stop
func (c *Client) StopCollection(ctx context.Context) (models.CommandAck, error) {
	var out models.CommandAck
	err := c.post(ctx, "/api/collection/stop", nil, &out)
	return out, err
}

// Sessions GET /api/sessions
func (c *Client) Sessions(ctx context.Context, page, size int) (models.CollectionSessionPage, error) {
	var out models.CollectionSessionPage
	err := c.get(ctx, "/api/sessions", map[string]string{
		"page": strconv.Itoa(page),
		"size": strconv.Itoa(size),
	}, &out)
	return out, err
}

// Live GET /api/live；无实时样本时返回 StatusCode=404 的 *APIError
func (c *Client) Live(ctx context.Context) (models.SensorSample, error) {
	var out models.SensorSample
	err := c.get(ctx, "/api/live", nil, &out)
	return out, err
}

// Download 下载 Excel 导出，返回原始字节
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetError(&errorBody{}).
		Get(path)
	if err := c.check(path, resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}
