package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
	"github.com/jhoicas/clara-api/internal/infrastructure/store"
	"github.com/jhoicas/clara-api/pkg/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	for _, driver := range []string{config.StoreMemory, config.StoreSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := &config.Config{Store: config.StoreConfig{
				Driver:     driver,
				SQLitePath: filepath.Join(t.TempDir(), "clara.db"),
			}}
			p, err := store.Open(ctx, cfg)
			require.NoError(t, err)
			defer p.Close()

			require.NoError(t, p.Ping(ctx))
			require.NoError(t, p.Repo.SaveProfile(ctx, entity.NewUserProfile("s", language.DE, time.Now())))
			got, err := p.Repo.GetProfile(ctx, "s")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, language.DE, got.ActiveLanguage)
		})
	}
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := store.Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "redis"}})
	assert.Error(t, err)
}
