// Package store elige el adaptador de persistencia de perfiles según STORE_DRIVER.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/clara-api/internal/application/subscription"
	"github.com/jhoicas/clara-api/internal/domain/repository"
	"github.com/jhoicas/clara-api/internal/infrastructure/memory"
	"github.com/jhoicas/clara-api/internal/infrastructure/postgres"
	"github.com/jhoicas/clara-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/clara-api/pkg/config"
)

// Profiles repositorio, runner transaccional y cierre del almacén elegido.
type Profiles struct {
	Repo  repository.ProfileRepository
	Tx    subscription.ProfileTxRunner
	Ping  func(ctx context.Context) error
	Close func()
}

// Open abre el almacén configurado. Postgres y SQLite aplican su esquema al abrir.
func Open(ctx context.Context, cfg *config.Config) (*Profiles, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory, "":
		repo := memory.NewProfileRepo()
		return &Profiles{
			Repo:  repo,
			Tx:    memory.NewTxRunner(repo),
			Ping:  func(context.Context) error { return nil },
			Close: func() {},
		}, nil

	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Profiles{
			Repo:  postgres.NewProfileRepository(pool),
			Tx:    postgres.NewTxRunner(pool),
			Ping:  pool.Ping,
			Close: pool.Close,
		}, nil

	case config.StoreSQLite:
		s, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Profiles{
			Repo:  s.Profiles(),
			Tx:    sqlite.NewTxRunner(s),
			Ping:  s.Ping,
			Close: func() { _ = s.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("STORE_DRIVER %q no soportado", cfg.Store.Driver)
	}
}
