package cli

import (
	"fmt"
	"strings"

	"github.com/schemalens/schemalens/internal/config"
	"github.com/schemalens/schemalens/internal/probe"
	"github.com/schemalens/schemalens/internal/prompt"
	"github.com/schemalens/schemalens/internal/provider"
	"github.com/schemalens/schemalens/internal/review"
	"github.com/schemalens/schemalens/internal/session"
	"github.com/schemalens/schemalens/internal/store"
)

// app holds the wired collaborators shared by the commands. The SQLite store
// backs the prompt cache, the session checkpointer, and the event log.
type app struct {
	cfg      *config.Config
	db       *store.DB
	prompts  *prompt.Store
	pipeline *review.Pipeline
}

// buildApp loads the configuration and constructs the full pipeline.
func buildApp() (*app, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return nil, fmt.Errorf("invalid config:\n  %s", strings.Join(msgs, "\n  "))
	}

	db, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	prov, err := provider.New(provider.Config{
		Type:        cfg.Provider.Type,
		APIKey:      cfg.Provider.APIKey,
		BaseURL:     cfg.Provider.BaseURL,
		Model:       cfg.Provider.Model,
		Temperature: cfg.Provider.Temperature,
		MaxTokens:   cfg.Provider.MaxTokens,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	prompts := prompt.NewStore(db, cfg.PromptTTL())
	sessions := session.NewManager(db, cfg.Chat.MaxHistorySize)
	prober := probe.NewPostgres(cfg.ProbeTimeout())

	return &app{
		cfg:      cfg,
		db:       db,
		prompts:  prompts,
		pipeline: review.NewPipeline(prov, prompts, sessions, prober, db),
	}, nil
}

// buildStoreApp wires only the store-backed collaborators, for commands that
// never call the provider.
func buildStoreApp() (*app, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	db, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		db:      db,
		prompts: prompt.NewStore(db, cfg.PromptTTL()),
	}, nil
}

func openStore(cfg *config.Config) (*store.DB, error) {
	path := cfg.Store.Path
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("store path: %w", err)
		}
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return db, nil
}

func (a *app) Close() {
	a.db.Close()
}
