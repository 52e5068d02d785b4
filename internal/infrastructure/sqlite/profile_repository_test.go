package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clara-api/internal/domain/entity"
	"github.com/jhoicas/clara-api/internal/domain/language"
	"github.com/jhoicas/clara-api/internal/domain/repository"
	"github.com/jhoicas/clara-api/internal/infrastructure/sqlite"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestProfileRepo_CicloCompleto(t *testing.T) {
	s := openStore(t)
	repo := s.Profiles()
	ctx := context.Background()

	p, err := repo.GetProfile(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, p)

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, repo.SaveProfile(ctx, entity.NewUserProfile("s1", language.IT, now)))
	// segunda inserción no sobrescribe
	require.NoError(t, repo.SaveProfile(ctx, entity.NewUserProfile("s1", language.DE, now)))

	p, err = repo.GetProfile(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, language.IT, p.ActiveLanguage)
	assert.Equal(t, []language.Code{language.IT}, p.AvailableLanguages)
	assert.True(t, now.Equal(p.CreatedAt))

	require.NoError(t, repo.UpdateSubscriptionType(ctx, "s1", entity.SubscriptionPremium))
	require.NoError(t, repo.UpdateAvailableLanguages(ctx, "s1", language.Supported()))
	require.NoError(t, repo.UpdateActiveLanguage(ctx, "s1", language.PT))

	p, err = repo.GetProfile(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionPremium, p.SubscriptionType)
	assert.Equal(t, language.Supported(), p.AvailableLanguages)
	assert.Equal(t, language.PT, p.ActiveLanguage)
	require.NoError(t, p.Validate())
}

func TestTxRunner_RollbackAnteError(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Profiles().SaveProfile(ctx, entity.NewUserProfile("s1", language.ES, time.Now())))

	boom := errors.New("boom")
	err := sqlite.NewTxRunner(s).RunInProfileTx(ctx, "s1", func(repo repository.ProfileRepository) error {
		require.NoError(t, repo.UpdateSubscriptionType(ctx, "s1", entity.SubscriptionPremium))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := s.Profiles().GetProfile(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionFreemium, p.SubscriptionType)
}
