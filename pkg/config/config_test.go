package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, AIProviderNone, cfg.AI.Provider)
	assert.Equal(t, "es", cfg.Subscription.DefaultLanguage)
	assert.Equal(t, DowngradeKeepActive, cfg.Subscription.DowngradePolicy)
	assert.Equal(t, 0.1, cfg.Correction.BasicTemperature)
	assert.Equal(t, 300, cfg.Correction.BasicMaxTokens)
	assert.Equal(t, 0.5, cfg.Correction.ArtificialTemperature)
	assert.Equal(t, 400, cfg.Correction.ArtificialMaxTokens)
	assert.Equal(t, 8*time.Second, cfg.Correction.StageTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_LeeValoresComoTexto(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "SQLite")
	v.Set("HTTP_PORT", "9090")
	v.Set("CORRECTION_BASIC_TEMPERATURE", "0.2")
	v.Set("CORRECTION_STAGE_TIMEOUT", "1500ms")
	v.Set("AI_HTTP_TIMEOUT", "5")
	v.Set("DEFAULT_LANGUAGE", "FR")
	v.Set("DOWNGRADE_POLICY", "revert_preferred")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 0.2, cfg.Correction.BasicTemperature)
	assert.Equal(t, 1500*time.Millisecond, cfg.Correction.StageTimeout)
	assert.Equal(t, 5*time.Second, cfg.AI.HTTPTimeout)
	assert.Equal(t, "fr", cfg.Subscription.DefaultLanguage)
	assert.Equal(t, DowngradeRevertPreferred, cfg.Subscription.DowngradePolicy)
}

func TestFromViper_RechazaEnumeradosDesconocidos(t *testing.T) {
	for key, val := range map[string]string{
		"STORE_DRIVER":     "mongo",
		"AI_PROVIDER":      "watson",
		"DOWNGRADE_POLICY": "borrar",
	} {
		t.Run(key, func(t *testing.T) {
			v := viper.New()
			v.Set(key, val)
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "clara", Password: "p@ss:word", DBName: "clara", SSLMode: "disable"}
	assert.Equal(t, "postgres://clara:p%40ss%3Aword@db:5432/clara?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
