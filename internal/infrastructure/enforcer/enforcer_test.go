package enforcer_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clara-api/internal/application/subscription"
	"github.com/jhoicas/clara-api/internal/domain/language"
	"github.com/jhoicas/clara-api/internal/infrastructure/enforcer"
	"github.com/jhoicas/clara-api/internal/infrastructure/memory"
)

func setup(t *testing.T) (*enforcer.Enforcer, *subscription.PolicyEngine) {
	t.Helper()
	repo := memory.NewProfileRepo()
	eng := subscription.NewPolicyEngine(repo, memory.NewTxRunner(repo),
		subscription.Config{DefaultLanguage: language.ES}, zerolog.Nop(), nil)
	cat, err := enforcer.DefaultCatalog()
	require.NoError(t, err)
	return enforcer.New(repo, cat, language.ES), eng
}

func TestEnforcer_ExitoEnElIdiomaNuevo(t *testing.T) {
	enf, eng := setup(t)
	ctx := context.Background()
	_, err := eng.EnsureProfile(ctx, "s", language.ES)
	require.NoError(t, err)
	_, err = eng.Upgrade(ctx, "s")
	require.NoError(t, err)
	_, err = eng.SwitchActiveLanguage(ctx, "s", language.EN)
	require.NoError(t, err)

	msg, err := enf.HandleLanguageSwitchRequest(ctx, "s", language.EN)
	require.NoError(t, err)
	assert.Contains(t, msg, "English")
	assert.Contains(t, msg, "we'll talk")
}

func TestEnforcer_FreemiumPideUpgradeEnSuIdioma(t *testing.T) {
	enf, eng := setup(t)
	ctx := context.Background()
	_, err := eng.EnsureProfile(ctx, "s", language.ES)
	require.NoError(t, err)
	_, err = eng.SwitchActiveLanguage(ctx, "s", language.FR)
	require.NoError(t, err)

	msg, err := enf.HandleLanguageSwitchRequest(ctx, "s", language.FR)
	require.NoError(t, err)
	assert.Contains(t, msg, "Premium")
	assert.Contains(t, msg, "francés")
}

func TestEnforcer_CodigoNoSoportado(t *testing.T) {
	enf, eng := setup(t)
	ctx := context.Background()
	_, err := eng.EnsureProfile(ctx, "s", language.ES)
	require.NoError(t, err)
	_, err = eng.Upgrade(ctx, "s")
	require.NoError(t, err)

	msg, err := enf.HandleLanguageSwitchRequest(ctx, "s", language.Code("ja"))
	require.NoError(t, err)
	assert.Contains(t, msg, `"ja"`)
	assert.NotContains(t, msg, "Premium")
}

func TestEnforcer_SinPerfil(t *testing.T) {
	enf, _ := setup(t)

	msg, err := enf.HandleLanguageSwitchRequest(context.Background(), "fantasma", language.EN)
	require.NoError(t, err)
	assert.Contains(t, msg, "No encontré tu sesión")
}

func TestParseCatalog_RechazaClavesDesconocidasEIdiomasFaltantes(t *testing.T) {
	_, err := enforcer.ParseCatalog([]byte("es:\n  switched: a\n  saludo: b\n"))
	assert.Error(t, err)

	_, err = enforcer.ParseCatalog([]byte("es:\n  switched: a\n  upgrade_required: b\n  unavailable: c\n  not_found: d\n"))
	assert.Error(t, err, "faltan idiomas")

	_, err = enforcer.ParseCatalog([]byte("xx:\n  switched: a\n"))
	assert.Error(t, err)
}
