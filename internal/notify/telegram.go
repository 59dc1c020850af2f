package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jmatosr02/tv-mt4-bridge/internal/model"
)

const (
	DefaultBaseURL = "https://api.telegram.org"
	DefaultTimeout = 15 * time.Second
)

var ErrNotConfigured = errors.New("telegram bot token or chat id not configured")

// Config holds bot credentials and delivery settings
type Config struct {
	BaseURL string
	Token   string
	ChatID  string
	Timeout time.Duration
}

// Client talks to the Telegram Bot API
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a client; empty fields fall back to defaults
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Configured reports whether both token and chat id are set
func (c *Client) Configured() bool {
	return c.config.Token != "" && c.config.ChatID != ""
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID                string       `json:"chat_id"`
	Text                  string       `json:"text"`
	DisableWebPagePreview bool         `json:"disable_web_page_preview"`
	ReplyMarkup           *replyMarkup `json:"reply_markup,omitempty"`
}

type answerCallbackRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage posts plain text to the configured chat
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	return c.call(ctx, "sendMessage", sendMessageRequest{
		ChatID:                c.config.ChatID,
		Text:                  text,
		DisableWebPagePreview: true,
	})
}

// SendApproval posts an approval prompt with approve and deny buttons
func (c *Client) SendApproval(ctx context.Context, sig model.Signal) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	return c.call(ctx, "sendMessage", sendMessageRequest{
		ChatID:                c.config.ChatID,
		Text:                  FormatApproval(sig),
		DisableWebPagePreview: true,
		ReplyMarkup: &replyMarkup{InlineKeyboard: [][]inlineButton{{
			{Text: "✅ Approve", CallbackData: model.ActionApprove + ":" + sig.ID},
			{Text: "❌ Deny", CallbackData: model.ActionDeny + ":" + sig.ID},
		}}},
	})
}

// AnswerCallback acknowledges a button press
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if c.config.Token == "" {
		return ErrNotConfigured
	}
	if callbackID == "" {
		return nil
	}
	return c.call(ctx, "answerCallbackQuery", answerCallbackRequest{
		CallbackQueryID: callbackID,
		Text:            text,
	})
}

func (c *Client) call(ctx context.Context, method string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.config.BaseURL, c.config.Token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The url embeds the token; keep it out of logs.
		return fmt.Errorf("%s request failed: %w", method, redact(err, c.config.Token))
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded apiResponse
	if err := json.Unmarshal(raw, &decoded); err == nil && !decoded.OK {
		return fmt.Errorf("%s rejected: %s", method, decoded.Description)
	}
	return nil
}

func redact(err error, token string) error {
	if token == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "<redacted>"))
}
