package deepl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// APIEndpointPro 付费API地址
	APIEndpointPro = "https://api.deepl.com/v2"

	// APIEndpointFree 免费API地址
	APIEndpointFree = "https://api-free.deepl.com/v2"

	// freeKeySuffix 免费版认证密钥的后缀
	freeKeySuffix = ":fx"
)

// Config DeepL客户端配置
type Config struct {
	// AuthKey 认证密钥
	AuthKey string `json:"auth_key,omitempty"`

	// APIEndpoint API地址，留空时按密钥后缀自动选择
	APIEndpoint string `json:"api_endpoint,omitempty"`

	// 超时和重试
	Timeout    time.Duration `json:"timeout"`
	MaxRetries int           `json:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay"`

	// Headers 自定义请求头
	Headers map[string]string `json:"headers,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Timeout:    time.Minute,
		MaxRetries: 5,
		RetryDelay: time.Second,
		Headers:    make(map[string]string),
	}
}

// Client DeepL API客户端
type Client struct {
	config     Config
	httpClient *http.Client
}

// New 创建新的DeepL客户端
func New(config Config) *Client {
	if config.APIEndpoint == "" {
		if strings.HasSuffix(config.AuthKey, freeKeySuffix) {
			config.APIEndpoint = APIEndpointFree
		} else {
			config.APIEndpoint = APIEndpointPro
		}
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Endpoint 返回实际使用的API地址
func (c *Client) Endpoint() string {
	return c.config.APIEndpoint
}

// TranslateText 翻译一批文本，每个输入对应一条结果，顺序保持不变
func (c *Client) TranslateText(ctx context.Context, texts []string, opts TranslateOptions) ([]Translation, error) {
	if len(texts) == 0 {
		return nil, &Error{Code: ErrCodeBadRequest, Message: "no text provided"}
	}
	if opts.TargetLang == "" {
		return nil, &Error{Code: ErrCodeBadRequest, Message: "target language not specified"}
	}

	reqBody := translateRequest{
		Text:               texts,
		SourceLang:         normalizeLanguageCode(opts.SourceLang, true),
		TargetLang:         normalizeLanguageCode(opts.TargetLang, false),
		PreserveFormatting: opts.PreserveFormatting,
		Context:            opts.Context,
		GlossaryID:         opts.GlossaryID,
		TagHandling:        opts.TagHandling,
		OutlineDetection:   opts.OutlineDetection,
		NonSplittingTags:   opts.NonSplittingTags,
		SplittingTags:      opts.SplittingTags,
		IgnoreTags:         opts.IgnoreTags,
	}
	// 默认值不必上送
	if opts.Formality != "" && opts.Formality != FormalityDefault {
		reqBody.Formality = string(opts.Formality)
	}
	if opts.SplitSentences != "" && opts.SplitSentences != SplitDefault {
		reqBody.SplitSentences = string(opts.SplitSentences)
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var resp translateResponse
	if err := c.do(ctx, http.MethodPost, "/translate", body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Translations) != len(texts) {
		return nil, &Error{
			Code:    ErrCodeServer,
			Message: fmt.Sprintf("expected %d translations, got %d", len(texts), len(resp.Translations)),
		}
	}

	return resp.Translations, nil
}

// Usage 查询账户字符用量
func (c *Client) Usage(ctx context.Context) (*Usage, error) {
	var usage Usage
	if err := c.do(ctx, http.MethodGet, "/usage", nil, &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

// do 执行请求，对可重试错误按MaxRetries重试
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var lastErr *Error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.config.RetryDelay * time.Duration(attempt)):
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		httpReq, err := http.NewRequestWithContext(ctx, method, c.config.APIEndpoint+path, reader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+c.config.AuthKey)
		if body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		for k, v := range c.config.Headers {
			httpReq.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = &Error{Code: ErrCodeNetwork, Message: "request failed", Cause: err}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			return nil
		}

		errBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		lastErr = errorFromStatus(resp.StatusCode, strings.TrimSpace(string(errBody)))
		if !lastErr.IsRetryable() {
			break
		}
	}

	return lastErr
}

// normalizeLanguageCode 标准化语言代码为DeepL格式
func normalizeLanguageCode(lang string, isSource bool) string {
	if lang == "" {
		return ""
	}

	upper := strings.ToUpper(lang)

	// 目标语言必须指定英语和葡萄牙语的变体
	if !isSource {
		switch upper {
		case "EN":
			return "EN-US"
		case "PT":
			return "PT-BR"
		}
	}

	// 处理 xx_YY 格式到 XX-YY
	if strings.Contains(upper, "_") {
		parts := strings.Split(upper, "_")
		if len(parts) == 2 {
			return parts[0] + "-" + parts[1]
		}
	}

	return upper
}
