package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "artifacts/car_price_model.json", cfg.Artifacts.ModelPath)
	assert.Equal(t, "artifacts/shap_explainer.json", cfg.Artifacts.ExplainerPath)
	assert.Equal(t, 200, cfg.Explanation.PlotHeight)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "carprice.yaml"), []byte(`
server:
  address: ":9090"
  write_timeout: 1m
artifacts:
  model_path: /srv/model.yaml
logging:
  format: json
`), 0o600))
	t.Setenv("CARPRICE_ARTIFACTS_EXPLAINER_PATH", "/srv/explainer.yaml")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, "/srv/model.yaml", cfg.Artifacts.ModelPath)
	assert.Equal(t, "/srv/explainer.yaml", cfg.Artifacts.ExplainerPath)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.env"), []byte("CARPRICE_LOGGING_LEVEL=debug\n"), 0o600))
	t.Setenv("CARPRICE_ENV_FILE", filepath.Join(dir, "custom.env"))
	// restore whatever godotenv sets once the test ends
	t.Setenv("CARPRICE_LOGGING_LEVEL", "")
	require.NoError(t, os.Unsetenv("CARPRICE_LOGGING_LEVEL"))

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	chdir(t, t.TempDir())
	v := viper.New()
	v.Set("config", "nope.yaml")

	_, err := Load(v)
	assert.Error(t, err)
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "deploy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: \":7070\"\n"), 0o600))
	t.Setenv("CARPRICE_CONFIG", path)

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Address)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "NoModel", mutate: func(c *Config) { c.Artifacts.ModelPath = "" }},
		{name: "NoExplainer", mutate: func(c *Config) { c.Artifacts.ExplainerPath = "" }},
		{name: "NoAddress", mutate: func(c *Config) { c.Server.Address = "" }},
		{name: "NegativeHeight", mutate: func(c *Config) { c.Explanation.PlotHeight = -1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{
				Server:    ServerConfig{Address: ":8080"},
				Artifacts: ArtifactsConfig{ModelPath: "m.json", ExplainerPath: "e.json"},
			}
			require.NoError(t, cfg.Validate())
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
