package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dshills/tagstorm/internal/suggest"
)

const claudeSystem = "You suggest short tags for a tag input. " +
	"Answer with one tag per line and nothing else."

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])?\s*`)

// ClaudeConfig configures the Claude source.
type ClaudeConfig struct {
	// APIKey authenticates requests. When empty the SDK reads
	// ANTHROPIC_API_KEY from the environment.
	APIKey string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// Model defaults to Claude Haiku 4.5.
	Model anthropic.Model

	// Count is how many tags to ask for. It defaults to 10.
	Count int

	// MaxTokens bounds the answer. It defaults to 256.
	MaxTokens int64

	// MaxRetries is passed to the SDK. Negative keeps the SDK default.
	MaxRetries int
}

// Claude asks an Anthropic model for tags related to the query.
type Claude struct {
	client anthropic.Client
	cfg    ClaudeConfig
}

// NewClaude creates a Claude source.
func NewClaude(cfg ClaudeConfig) *Claude {
	if cfg.Model == "" {
		cfg.Model = anthropic.ModelClaudeHaiku4_5
	}
	if cfg.Count <= 0 {
		cfg.Count = 10
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 256
	}

	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	return &Claude{client: anthropic.NewClient(opts...), cfg: cfg}
}

// Suggest implements suggest.Source.
func (c *Claude) Suggest(ctx context.Context, query string) (suggest.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return suggest.Strings(), nil
	}

	prompt := fmt.Sprintf("Suggest up to %d tags related to %q.", c.cfg.Count, query)
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		System:    []anthropic.TextBlockParam{{Text: claudeSystem}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return suggest.Result{}, fmt.Errorf("claude: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
			text.WriteByte('\n')
		}
	}
	lines := ParseLines(text.String())
	if len(lines) > c.cfg.Count {
		lines = lines[:c.cfg.Count]
	}
	return suggest.Strings(lines...), nil
}

// ParseLines turns a one-tag-per-line answer into tags. List markers,
// numbering and quotes are stripped; empty and repeated entries (ignoring
// case) are dropped.
func ParseLines(s string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, line := range strings.Split(s, "\n") {
		line = listMarker.ReplaceAllString(line, "")
		line = strings.Trim(strings.TrimSpace(line), "\"'`")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key := strings.ToLower(line)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, line)
	}
	return out
}
