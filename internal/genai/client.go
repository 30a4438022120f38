package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vibecade/internal/game"
	"vibecade/internal/logging"
)

var (
	// ErrEmptyPrompt is returned before any network call for a blank prompt.
	ErrEmptyPrompt = errors.New("genai: prompt is required")
	// ErrGeneration wraps every failure of the generation call itself.
	ErrGeneration = errors.New("genai: generation failed")
)

// Generator turns a game description into a playable document.
type Generator interface {
	Generate(ctx context.Context, prompt string) (game.Document, error)
}

// Config selects and configures the text generation provider.
type Config struct {
	Provider   string // "gemini" or "openai"
	APIKey     string
	Model      string
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

const (
	defaultGeminiEndpoint = "https://generativelanguage.googleapis.com"
	defaultGeminiModel    = "gemini-2.5-pro"
	defaultOpenAIEndpoint = "https://api.openai.com/v1/responses"
	defaultOpenAIModel    = "gpt-4.1"
)

// New builds a Generator for cfg.Provider.
func New(cfg Config) (Generator, error) {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		return NewGemini(cfg), nil
	case "openai":
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("genai: unknown provider %q", cfg.Provider)
	}
}

// Gemini calls the generateContent REST endpoint.
type Gemini struct {
	cfg Config
}

func NewGemini(cfg Config) *Gemini {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = defaultGeminiEndpoint
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultGeminiModel
	}
	return &Gemini{cfg: cfg}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (game.Document, error) {
	if strings.TrimSpace(prompt) == "" {
		return game.Document{}, ErrEmptyPrompt
	}
	body, err := json.Marshal(map[string]any{
		"contents": []geminiContent{{Parts: []geminiPart{{Text: BuildPrompt(prompt)}}}},
	})
	if err != nil {
		return game.Document{}, fmt.Errorf("%w: marshal request: %v", ErrGeneration, err)
	}
	endpoint := strings.TrimRight(g.cfg.Endpoint, "/") +
		"/v1beta/models/" + url.PathEscape(g.cfg.Model) + ":generateContent"

	var payload struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
	err = post(ctx, g.cfg.HTTPClient, endpoint, body, func(req *http.Request) {
		req.Header.Set("x-goog-api-key", g.cfg.APIKey)
	}, &payload)
	if err != nil {
		return game.Document{}, err
	}

	var b strings.Builder
	if len(payload.Candidates) > 0 {
		for _, p := range payload.Candidates[0].Content.Parts {
			b.WriteString(p.Text)
		}
	}
	return finish(b.String())
}

// OpenAI calls the Responses API.
type OpenAI struct {
	cfg Config
}

func NewOpenAI(cfg Config) *OpenAI {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = defaultOpenAIEndpoint
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultOpenAIModel
	}
	return &OpenAI{cfg: cfg}
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (game.Document, error) {
	if strings.TrimSpace(prompt) == "" {
		return game.Document{}, ErrEmptyPrompt
	}
	body, err := json.Marshal(map[string]any{
		"model": o.cfg.Model,
		"input": BuildPrompt(prompt),
	})
	if err != nil {
		return game.Document{}, fmt.Errorf("%w: marshal request: %v", ErrGeneration, err)
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	err = post(ctx, o.cfg.HTTPClient, o.cfg.Endpoint, body, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)
	}, &payload)
	if err != nil {
		return game.Document{}, err
	}

	text := payload.OutputText
	if strings.TrimSpace(text) == "" {
		for _, item := range payload.Output {
			for _, c := range item.Content {
				if strings.TrimSpace(c.Text) != "" {
					text = c.Text
					break
				}
			}
			if strings.TrimSpace(text) != "" {
				break
			}
		}
	}
	return finish(text)
}

func post(ctx context.Context, client *http.Client, endpoint string, body []byte, auth func(*http.Request), out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The key only travels in headers and never appears in errors.
	auth(req)

	start := time.Now()
	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", ErrGeneration, err)
	}
	defer res.Body.Close()
	logging.Debugf("genai %s -> %d in %s", req.URL.Host, res.StatusCode, time.Since(start))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", ErrGeneration, res.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrGeneration, err)
	}
	return nil
}

func finish(text string) (game.Document, error) {
	text = StripFence(text)
	if text == "" {
		return game.Document{}, fmt.Errorf("%w: response missing output text", ErrGeneration)
	}
	return game.NewDocument(text), nil
}
