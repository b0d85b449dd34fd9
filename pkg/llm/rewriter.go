// Package llm rewrites source articles into the blog and channel forms using
// an OpenAI-compatible chat completions API.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/repost/pkg/config"
)

// Rewriter produces the two post forms from extracted article text
type Rewriter struct {
	client *openai.Client
	cfg    config.LLMConfig
}

// NewRewriter creates a rewriter against the configured endpoint (DeepSeek or
// any OpenAI-compatible API)
func NewRewriter(cfg config.LLMConfig) *Rewriter {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &Rewriter{client: openai.NewClientWithConfig(clientConfig), cfg: cfg}
}

// default system prompts, overridable from config. The short form targets a
// telegram photo caption, so its budget stays under the 1024 char API limit.
const (
	defaultLongPrompt = `You rewrite fitness and health articles into original blog posts. ` +
		`Fully rewrite in your own words, remove every trace of the source, keep the complete ` +
		`program (exercises, sets, reps, practical advice), use a friendly coaching tone and ` +
		`clear paragraph structure. Output only the rewritten article text.`

	defaultShortPrompt = `You rewrite fitness and health articles into short social channel posts. ` +
		`Fully rewrite in your own words, remove every trace of the source, keep the whole ` +
		`workout or nutrition program, be concise and motivating, use a few emoji for structure. ` +
		`HARD LIMIT: %d characters total. Output only the post text.`
)

// RewriteLong produces the blog form of the post
func (r *Rewriter) RewriteLong(ctx context.Context, text, title string) (string, error) {
	prompt := r.cfg.LongPrompt
	if prompt == "" {
		prompt = defaultLongPrompt
	}
	return r.complete(ctx, prompt, text, title)
}

// RewriteShort produces the channel form, bounded by the configured budget
func (r *Rewriter) RewriteShort(ctx context.Context, text, title string) (string, error) {
	prompt := r.cfg.ShortPrompt
	if prompt == "" {
		prompt = fmt.Sprintf(defaultShortPrompt, r.cfg.ShortMaxChars)
	}
	res, err := r.complete(ctx, prompt, text, title)
	if err != nil {
		return "", err
	}
	// the model occasionally overshoots its budget, trim hard at rune level
	if limit := r.cfg.ShortMaxChars; limit > 0 {
		if runes := []rune(res); len(runes) > limit {
			lgr.Printf("[WARN] short form overshot budget, trimmed %d -> %d chars", len(runes), limit)
			res = strings.TrimSpace(string(runes[:limit]))
		}
	}
	return res, nil
}

// complete runs one chat completion with the source text capped to the input
// budget
func (r *Rewriter) complete(ctx context.Context, systemPrompt, text, title string) (string, error) {
	if limit := r.cfg.InputMaxChars; limit > 0 && len(text) > limit {
		text = text[:limit]
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            r.cfg.Model,
		Temperature:      float32(r.cfg.Temperature),
		MaxTokens:        r.cfg.MaxTokens,
		TopP:             0.9,
		FrequencyPenalty: 0.3,
		PresencePenalty:  0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("TITLE: %s\n\nTEXT:\n%s", title, text)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	res := strings.TrimSpace(resp.Choices[0].Message.Content)
	lgr.Printf("[DEBUG] rewrite produced %d chars for %q", len(res), title)
	return res, nil
}
