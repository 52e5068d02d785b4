package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
	"github.com/jhoicas/clara-api/internal/domain/repository"
	"github.com/jhoicas/clara-api/internal/infrastructure/postgres"
)

// Requiere una base real: TEST_DATABASE_URL=postgres://... go test ./internal/infrastructure/postgres/
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func TestProfileRepo_Postgres(t *testing.T) {
	pool := testPool(t)
	repo := postgres.NewProfileRepository(pool)
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, repo.SaveProfile(ctx, entity.NewUserProfile(id, language.FR, time.Now())))
	require.NoError(t, repo.SaveProfile(ctx, entity.NewUserProfile(id, language.EN, time.Now())))

	p, err := repo.GetProfile(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, language.FR, p.ActiveLanguage)

	err = postgres.NewTxRunner(pool).RunInProfileTx(ctx, id, func(r repository.ProfileRepository) error {
		if err := r.UpdateSubscriptionType(ctx, id, entity.SubscriptionPremium); err != nil {
			return err
		}
		return r.UpdateAvailableLanguages(ctx, id, language.Supported())
	})
	require.NoError(t, err)

	p, err = repo.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionPremium, p.SubscriptionType)
	require.NoError(t, p.Validate())

	missing, err := repo.GetProfile(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
