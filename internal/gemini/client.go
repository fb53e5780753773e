// Package gemini はGemini APIによるテキスト生成クライアントを提供する。
// 1回の呼び出しにつき1リクエストを送信し、会話状態は保持しない。
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// defaultEndpoint はGemini APIのベースURL。
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
)

// Config はクライアントの設定。
type Config struct {
	APIKey   string
	Model    string        // 例: "gemini-1.5-flash"
	Endpoint string        // 空の場合はdefaultEndpointを使用
	Timeout  time.Duration // 1呼び出しあたりの上限。0の場合は30秒
}

// Client はGemini generateContentエンドポイントのクライアント。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	config     Config
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(httpClient *http.Client, logger *slog.Logger, config Config) *Client {
	if config.Endpoint == "" {
		config.Endpoint = defaultEndpoint
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		config:     config,
	}
}

// generateContentRequest はgenerateContent APIのリクエストボディ。
type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// generateContentResponse はgenerateContent APIのレスポンスボディ。
type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete はプロンプトを送信し、生成されたテキストを返す。
// 設定されたタイムアウトを超えた場合、または呼び出し元のコンテキストが
// キャンセルされた場合はエラーを返す。
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	reqBody := generateContentRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			TopP:            1,
			TopK:            1,
			MaxOutputTokens: 1024,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.config.Endpoint, c.config.Model, c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Gemini APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
			slog.String("model", c.config.Model),
		)
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var result generateContentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("Gemini APIレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
			slog.Int("http_status", resp.StatusCode),
		)
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Gemini APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("model", c.config.Model),
		)
		if result.Error != nil && result.Error.Message != "" {
			return "", fmt.Errorf("completion service returned status %d: %s", resp.StatusCode, result.Error.Message)
		}
		return "", fmt.Errorf("completion service returned status %d", resp.StatusCode)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("completion response contained no candidates")
	}

	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("completion response contained empty text")
	}

	c.logger.Debug("completion succeeded",
		slog.String("model", c.config.Model),
		slog.Float64("duration_ms", float64(time.Since(start).Nanoseconds())/float64(time.Millisecond)),
	)

	return text, nil
}
