// Package messages supplies the short lines printed on tissues in Zen mode.
// A Generator asks a language model for fresh lines and silently falls back
// to a built-in list whenever the model is unavailable.
package messages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Source produces up to count messages.
// Callers must tolerate a shorter or empty result.
type Source interface {
	Request(ctx context.Context, count int) ([]string, error)
}

// Provider is a text completion backend (OpenAI, Anthropic, ...).
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Separator splits lines in a model reply.
const Separator = "|"

// Prompt builds the request sent to the model for count lines.
func Prompt(count int) string {
	return fmt.Sprintf(promptTemplate, count)
}

const promptTemplate = `生成 %d 句简短、治愈、温暖或者稍微有点幽默的中文短句（类似于幸运饼干或网抑云语录）。每句不超过15个字。这些句子是写在抽纸上的，希望能给用户带来解压的感觉。仅返回句子，用竖线 (|) 分隔。不要返回 JSON 或 Markdown。`

// Generator asks a Provider for messages and falls back on any failure.
type Generator struct {
	provider Provider
	fallback Source
	logger   *log.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithFallback replaces the built-in fallback list.
func WithFallback(src Source) GeneratorOption {
	return func(g *Generator) {
		g.fallback = src
	}
}

// WithLogger sets the logger used to report provider failures.
func WithLogger(logger *log.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a Generator. A nil provider means "no API key":
// every request is served from the fallback.
func NewGenerator(provider Provider, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider: provider,
		fallback: NewStatic(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Request implements Source. It never returns an error: the fallback is a
// full substitute for the model.
func (g *Generator) Request(ctx context.Context, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}

	if g.provider == nil {
		g.logger.Debug("no provider configured, using fallback messages")
		return g.fallback.Request(ctx, count)
	}

	reply, err := g.provider.Complete(ctx, Prompt(count))
	if err != nil {
		g.logger.Warn("message provider failed", "provider", g.provider.Name(), "error", err)
		return g.fallback.Request(ctx, count)
	}

	lines := ParseReply(reply, count)
	if len(lines) == 0 {
		g.logger.Warn("message provider returned no usable lines", "provider", g.provider.Name())
		return g.fallback.Request(ctx, count)
	}

	return lines, nil
}

// ParseReply splits a model reply on Separator, trims each line and drops
// blanks. At most limit lines are returned; limit <= 0 means no limit.
func ParseReply(reply string, limit int) []string {
	parts := strings.Split(reply, Separator)
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		lines = append(lines, p)
		if limit > 0 && len(lines) == limit {
			break
		}
	}
	return lines
}
