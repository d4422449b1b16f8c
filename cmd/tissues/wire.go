package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/vovakirdan/tissue-box/internal/config"
	anthropicllm "github.com/vovakirdan/tissue-box/internal/llm/anthropic"
	openaillm "github.com/vovakirdan/tissue-box/internal/llm/openai"
	"github.com/vovakirdan/tissue-box/internal/messages"
)

// app holds everything a command needs, resolved from config, flags and environment.
type app struct {
	cfg    config.Config
	logger *log.Logger
	source messages.Source
	seed   int64
	dbPath string

	closeLog func() error
}

// wireOptions controls where logs go for a command.
type wireOptions struct {
	prefix      string
	stderr      bool // Log to stderr when no log file is set
	timestamped bool
}

// wireApp loads the configuration, applies the flag and environment
// overlay, and builds the logger and note source.
func wireApp(v *viper.Viper, opts wireOptions) (*app, error) {
	cfg, err := config.Load(v.GetString(keyConfig))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	applyOverlay(&cfg, v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := newLogger(v.GetString(keyLogFile), opts)
	if err != nil {
		return nil, err
	}

	provider, err := newProvider(cfg.Messages)
	if err != nil {
		closeLog()
		return nil, err
	}

	fallback := messages.NewStaticFrom(cfg.Messages.Fallback)
	source := messages.NewGenerator(provider,
		messages.WithFallback(fallback),
		messages.WithLogger(logger.WithPrefix(opts.prefix+"-messages")),
	)

	if provider != nil {
		logger.Debug("note source ready", "provider", provider.Name(), "model", cfg.Messages.Model)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		source:   source,
		seed:     v.GetInt64(keySeed),
		dbPath:   v.GetString(keyDB),
		closeLog: closeLog,
	}, nil
}

// close releases the log file, if any.
func (a *app) close() {
	if a.closeLog != nil {
		//nolint:errcheck // Best-effort close on exit
		a.closeLog()
	}
}

// applyOverlay copies flag and environment settings over the file configuration.
func applyOverlay(cfg *config.Config, v *viper.Viper) {
	if p := v.GetString(keyProvider); p != "" {
		cfg.Messages.Provider = p
	}
	if m := v.GetString(keyModel); m != "" {
		cfg.Messages.Model = m
	}
	if k := v.GetString(keyAPIKey); k != "" {
		cfg.Messages.APIKey = k
	}
	if u := v.GetString(keyBaseURL); u != "" {
		cfg.Messages.BaseURL = u
	}
}

// newLogger creates the command logger. Interactive commands log nowhere
// unless a file is given, since the alternate screen owns the terminal.
func newLogger(path string, opts wireOptions) (*log.Logger, func() error, error) {
	var out io.Writer = io.Discard
	closeFn := func() error { return nil }

	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		out = f
		closeFn = f.Close
	case opts.stderr:
		out = os.Stderr
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: opts.timestamped || path != "",
		TimeFormat:      time.DateTime,
		Prefix:          opts.prefix,
	})
	if path != "" {
		logger.SetLevel(log.DebugLevel)
	}

	return logger, closeFn, nil
}

// newProvider builds the generative note provider, or nil for the static list.
func newProvider(m config.MessagesConfig) (messages.Provider, error) {
	switch m.Provider {
	case "", config.ProviderNone:
		return nil, nil

	case config.ProviderOpenAI:
		return openaillm.New(func(o *openaillm.Options) {
			if m.Model != "" {
				o.Model = m.Model
			}
			o.Temperature = m.Temperature
			o.APIKey = m.APIKey
			o.BaseURL = m.BaseURL
		}), nil

	case config.ProviderAnthropic:
		return anthropicllm.New(func(o *anthropicllm.Options) {
			if m.Model != "" {
				o.Model = anthropic.Model(m.Model)
			}
			o.Temperature = m.Temperature
			o.APIKey = m.APIKey
			o.BaseURL = m.BaseURL
		}), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", m.Provider)
	}
}
