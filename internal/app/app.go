// Package app assembles the collections, their services and the key-value
// store they persist to.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/appshelf/appshelf/config"
	"github.com/appshelf/appshelf/internal/core/auth"
	"github.com/appshelf/appshelf/internal/core/category"
	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/farmsurvey"
	"github.com/appshelf/appshelf/internal/core/livestock"
	"github.com/appshelf/appshelf/internal/core/news"
	"github.com/appshelf/appshelf/internal/core/note"
	"github.com/appshelf/appshelf/internal/core/product"
	"github.com/appshelf/appshelf/internal/core/task"
	"github.com/appshelf/appshelf/internal/core/todo"
	"github.com/appshelf/appshelf/internal/core/validation"
	"github.com/appshelf/appshelf/internal/fixtures"
	"github.com/appshelf/appshelf/internal/storage"
	"github.com/appshelf/appshelf/internal/storage/memory"
	"github.com/appshelf/appshelf/internal/storage/postgres"
	"github.com/appshelf/appshelf/internal/storage/redis"
	"github.com/appshelf/appshelf/internal/storage/sqlite"
)

type App struct {
	KV storage.KV

	Auth        *auth.Service
	News        *news.Service
	Categories  *collection.Store[category.Category]
	Products    *product.Service
	Tasks       *task.Service
	Notes       *note.Service
	Todos       *todo.Service
	Surveys     *livestock.Service
	FarmSurveys *farmsurvey.Service

	// Registry holds every collection. Public leaves out users, whose
	// documents carry password hashes.
	Registry *collection.Registry
	Public   *collection.Registry

	log zerolog.Logger
}

// New opens the configured key-value store and loads every collection.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	kv, err := OpenKV(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a, err := NewWithKV(ctx, cfg, kv, log)
	if err != nil {
		kv.Close()
		return nil, err
	}
	return a, nil
}

// OpenKV selects the storage driver named by cfg.Storage.Driver.
func OpenKV(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return memory.New(), nil
	case "sqlite":
		kv, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case "postgres":
		client, err := postgres.NewClient(ctx, &cfg.Database, "")
		if err != nil {
			return nil, err
		}
		kv, err := postgres.NewKV(ctx, client)
		if err != nil {
			client.Close()
			return nil, err
		}
		return kv, nil
	case "redis":
		kv, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func NewWithKV(ctx context.Context, cfg *config.Config, kv storage.KV, log zerolog.Logger) (*App, error) {
	v := validation.NewValidator()
	opts := func(name string) []collection.Option {
		return []collection.Option{
			collection.WithKey(storage.Key(cfg.Storage.Prefix, name)),
			collection.WithLogger(log),
		}
	}

	users := collection.NewStore(auth.UsersDefinition(), kv, v, opts(auth.CollectionName)...)
	articles := collection.NewStore(news.Definition(), kv, v, opts(news.CollectionName)...)
	categories := collection.NewStore(category.Definition(), kv, v, opts(category.CollectionName)...)
	products := collection.NewStore(product.Definition(), kv, v, opts(product.CollectionName)...)
	tasks := collection.NewStore(task.Definition(), kv, v, opts(task.CollectionName)...)
	notes := collection.NewStore(note.Definition(), kv, v, opts(note.CollectionName)...)
	todos := collection.NewStore(todo.Definition(), kv, v, opts(todo.CollectionName)...)
	surveys := collection.NewStore(livestock.Definition(), kv, v, opts(livestock.CollectionName)...)
	farmSurveys := collection.NewStore(farmsurvey.Definition(), kv, v, opts(farmsurvey.CollectionName)...)

	a := &App{
		KV:          kv,
		Auth:        auth.NewService(users, &cfg.JWT),
		News:        news.NewService(articles),
		Categories:  categories,
		Products:    product.NewService(products),
		Tasks:       task.NewService(tasks),
		Notes:       note.NewService(notes),
		Todos:       todo.NewService(todos),
		Surveys:     livestock.NewService(surveys),
		FarmSurveys: farmsurvey.NewService(farmSurveys),
		Registry:    collection.NewRegistry(),
		Public:      collection.NewRegistry(),
		log:         log,
	}

	public := []collection.Collection{articles, categories, products, tasks, notes, todos, surveys, farmSurveys}
	for _, c := range public {
		a.Registry.Register(c)
		a.Public.Register(c)
	}
	a.Registry.Register(users)

	for _, c := range a.Registry.All() {
		fixture, err := fixtures.Load(c.Name())
		if err != nil {
			return nil, err
		}
		if err := c.Load(ctx, fixture); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Seed overwrites the named collections (all of them when names is empty)
// with their fixtures and persists the result.
func (a *App) Seed(ctx context.Context, names ...string) error {
	targets := a.Registry.All()
	if len(names) > 0 {
		targets = targets[:0:0]
		for _, name := range names {
			c, ok := a.Registry.Get(name)
			if !ok {
				return fmt.Errorf("unknown collection %q", name)
			}
			targets = append(targets, c)
		}
	}

	for _, c := range targets {
		fixture, err := fixtures.Load(c.Name())
		if err != nil {
			return err
		}
		if err := c.Seed(ctx, fixture); err != nil {
			return fmt.Errorf("seed %s: %w", c.Name(), err)
		}
		a.log.Info().Str("collection", c.Name()).Int("count", c.Len()).Msg("collection seeded")
	}
	return nil
}

func (a *App) Close() error {
	return a.KV.Close()
}
