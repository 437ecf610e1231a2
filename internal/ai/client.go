// Package ai is the text-generation boundary: maintenance categorization,
// lease field extraction, rent reminder drafting and vendor suggestions.
// Each operation is one chat-completion round trip with a JSON answer.
package ai

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"unithub/internal/metrics"
	"unithub/internal/store"
)

var (
	// ErrGeneration 调用失败或返回内容无法解析
	ErrGeneration = errors.New("text generation failed")
	ErrDisabled   = errors.New("text generation is not configured")
)

// Generator 四个文本生成操作
type Generator interface {
	CategorizeMaintenance(ctx context.Context, title, description string) (*MaintenanceCategory, error)
	ExtractLeaseFields(ctx context.Context, leaseText string) (map[string]any, error)
	GenerateRentReminder(ctx context.Context, in ReminderInput) (*RentReminder, error)
	SuggestVendorTypes(ctx context.Context, category, description string) (*VendorSuggestions, error)
}

// Options OpenAI 兼容接口配置
type Options struct {
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client 文本生成客户端（不重试）
type Client struct {
	httpClient *resty.Client
	model      string
	cache      store.KV
	cacheTTL   time.Duration
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

var _ Generator = (*Client)(nil)

// NewClient cache and m may be nil.
func NewClient(opts Options, cache store.KV, m *metrics.Metrics, logger *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.APIKey != "" {
		client.SetAuthToken(opts.APIKey)
	}

	return &Client{
		httpClient: client,
		model:      opts.Model,
		cache:      cache,
		cacheTTL:   opts.CacheTTL,
		metrics:    m,
		logger:     logger,
	}
}

// generate runs one prompt/response round trip, decodes the JSON answer into
// out and runs check on it. Only answers that pass check are cached.
func (c *Client) generate(ctx context.Context, op, system, user string, out any, check func() error) error {
	start := time.Now()
	key := c.cacheKey(op, system, user)

	if raw, ok := c.cached(ctx, key); ok {
		if decodeAnswer(raw, out) == nil && check() == nil {
			c.record(op, "cached", start)
			return nil
		}
	}

	raw, err := c.complete(ctx, system, user)
	if err == nil {
		err = decodeAnswer(raw, out)
	}
	if err == nil {
		err = check()
	}
	if err != nil {
		c.record(op, "error", start)
		c.logger.Warn("Text generation failed",
			zap.String("operation", op),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s: %v", ErrGeneration, op, err)
	}

	c.save(ctx, key, raw)
	c.record(op, "ok", start)
	return nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    0.2,
	}

	var result, apiErr chatResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("call completion API: %w", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if apiErr.Error != nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", fmt.Errorf("completion API error (status: %d): %s", resp.StatusCode(), msg)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("completion API returned no choices")
	}
	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("completion API returned empty content")
	}
	return content, nil
}

// decodeAnswer 兼容模型把 JSON 包在 ``` 代码块里的情况。
// out 先清零，被拒绝的缓存答案不会残留字段。
func decodeAnswer(raw string, out any) error {
	if v := reflect.ValueOf(out); v.Kind() == reflect.Pointer && !v.IsNil() {
		v.Elem().SetZero()
	}
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	if err := json.Unmarshal([]byte(s), out); err != nil {
		return fmt.Errorf("decode answer: %w", err)
	}
	return nil
}

func (c *Client) cacheKey(op, system, user string) string {
	sum := md5.Sum([]byte(c.model + "\x00" + system + "\x00" + user))
	return "ai:" + op + ":" + hex.EncodeToString(sum[:])
}

func (c *Client) cached(ctx context.Context, key string) (string, bool) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return "", false
	}
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrMiss) {
			c.logger.Warn("AI cache read failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return raw, true
}

func (c *Client) save(ctx context.Context, key, raw string) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.cacheTTL); err != nil {
		c.logger.Warn("AI cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Client) record(op, outcome string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordAICall(op, outcome, time.Since(start))
	}
}
