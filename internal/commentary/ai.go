package commentary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// AIConfig configures the chat-completions endpoint used for the top tier.
type AIConfig struct {
	URL        string
	APIKey     string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// AIGenerator asks a hosted language model for a line of commentary.
// It is skipped without error when unconfigured or out of quota.
type AIGenerator struct {
	cfg    AIConfig
	quota  *Quota
	logger *slog.Logger
}

func NewAIGenerator(cfg AIConfig, quota *Quota, logger *slog.Logger) *AIGenerator {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AIGenerator{cfg: cfg, quota: quota, logger: logger}
}

func (g *AIGenerator) Name() string { return "ai" }

// Enabled reports whether the tier has an endpoint and credentials.
func (g *AIGenerator) Enabled() bool {
	return strings.TrimSpace(g.cfg.URL) != "" && strings.TrimSpace(g.cfg.APIKey) != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are a lively cricket commentator. Reply with one or two short sentences describing the delivery. No hashtags, no emojis."

func (g *AIGenerator) Generate(ctx context.Context, ball BallContext) (string, error) {
	if !g.Enabled() {
		return "", nil
	}
	if g.quota != nil && !g.quota.Allow() {
		g.logger.Debug("ai commentary quota exhausted", "match_id", ball.MatchID)
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: Prompt(ball)},
		},
		MaxTokens:   80,
		Temperature: 0.9,
	})
	if err != nil {
		return "", fmt.Errorf("marshal commentary request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build commentary request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	res, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("commentary request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("commentary request status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}

	var payload chatResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode commentary response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", errors.New("commentary response has no choices")
	}
	return strings.Trim(strings.TrimSpace(payload.Choices[0].Message.Content), `"`), nil
}

// Prompt describes the delivery for the language model.
func Prompt(b BallContext) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Over %s. %s bowling to %s. ", b.OverBall(), orDefault(b.Bowler, "The bowler"), orDefault(b.Batsman, "the batsman"))
	switch ev := Classify(b); {
	case ev.IsWicketEvent():
		fmt.Fprintf(&sb, "WICKET, dismissed %s.", strings.ReplaceAll(b.DismissalType, "_", " "))
	case ev == EventSix:
		sb.WriteString("Hit for SIX.")
	case ev == EventFour:
		sb.WriteString("Hit for FOUR.")
	case b.ExtraType != "":
		fmt.Fprintf(&sb, "Extra: %s, %d run(s).", strings.ReplaceAll(b.ExtraType, "_", " "), b.ExtraRuns)
	default:
		fmt.Fprintf(&sb, "%d run(s) off the bat.", b.Runs)
	}
	fmt.Fprintf(&sb, " Score %d/%d.", b.Score, b.Wickets)
	if b.Target > 0 {
		fmt.Fprintf(&sb, " Chasing %d.", b.Target)
	}
	return sb.String()
}
