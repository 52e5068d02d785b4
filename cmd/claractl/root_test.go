package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clara-api/pkg/jwt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClaractl_CicloDeSuscripcionSobreSQLite(t *testing.T) {
	t.Setenv("AI_PROVIDER", "none")
	db := filepath.Join(t.TempDir(), "clara.db")
	flags := []string{"--driver", "sqlite", "--sqlite-path", db}

	out, err := run(t, append([]string{"ensure", "s1", "--language", "fr"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "freemium")
	assert.Contains(t, out, "fr")

	out, err = run(t, append([]string{"switch", "s1", "de"}, flags...)...)
	require.Error(t, err)
	assert.Contains(t, out, "upgrade_required")

	_, err = run(t, append([]string{"upgrade", "s1"}, flags...)...)
	require.NoError(t, err)

	out, err = run(t, append([]string{"switch", "s1", "de"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "switched")

	out, err = run(t, append([]string{"status", "s1"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "premium")
	assert.Contains(t, out, "es,en,fr,it,de,pt")

	out, err = run(t, append([]string{"downgrade", "s1"}, flags...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "freemium")
	assert.Contains(t, lines[1], "de")
}

func TestClaractl_TokenVerificable(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "secreto-de-prueba")
	t.Setenv("ADMIN_JWT_ISSUER", "clara-test")

	out, err := run(t, "token", "--subject", "ops")
	require.NoError(t, err)

	sub, role, err := jwt.Parse("secreto-de-prueba", "clara-test", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", sub)
	assert.Equal(t, jwt.RoleAdmin, role)
}

func TestClaractl_TokenSinSecretoFalla(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")
	_, err := run(t, "token")
	assert.Error(t, err)
}

func TestClaractl_EnsureRechazaIdiomaFueraDelConjunto(t *testing.T) {
	db := filepath.Join(t.TempDir(), "clara.db")
	_, err := run(t, "ensure", "s1", "--language", "ja", "--driver", "sqlite", "--sqlite-path", db)
	assert.Error(t, err)
}

func TestClaractl_AnalyzeSinProveedorNoFalla(t *testing.T) {
	t.Setenv("AI_PROVIDER", "none")
	out, err := run(t, "analyze", "--language", "en", "I", "has", "a", "dog")
	require.NoError(t, err)
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "AI_PROVIDER=none")
}
