package folio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "folio.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
data_dir = "/var/lib/folio"
origin = "2018-06-01"
window_days = 14
exclude = ["DLR.U"]

[feed]
host = "https://api.example.com"
token_env = "QT_TOKEN"

[[accounts]]
id = "123"
display = "TFSA"

[[accounts]]
id = "456"
display = "Margin"
taxable = true

[remaps]
FB = "META"

[[manual_trades]]
symbol = "NVDA"
date = "2021-07-20"
action = "buy"
quantity = 40
price = 187.5
currency = "USD"
account = "Margin"

[logging]
level = "debug"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/folio", cfg.DataDir)
	assert.Equal(t, 14, cfg.WindowDays)
	assert.Equal(t, "https://api.example.com", cfg.Feed.Host)
	assert.Equal(t, "QT_TOKEN", cfg.Feed.TokenEnv)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, map[string]string{"FB": "META"}, cfg.Remaps)
	assert.True(t, cfg.ExcludeSet()["DLR.U"])

	opts, err := cfg.SyncOptions()
	require.NoError(t, err)
	assert.Equal(t, MustParseDate("2018-06-01"), opts.Origin)
	assert.Equal(t, []string{"123", "456"}, opts.Accounts)
	assert.Equal(t, "Margin", opts.DisplayAccounts["456"])

	require.Len(t, opts.ManualTrades, 1)
	manual := opts.ManualTrades[0]
	assert.Equal(t, "NVDA", manual.Symbol)
	assert.Equal(t, Buy, manual.Action)
	assert.Equal(t, USD, manual.Currency())
	assert.InDelta(t, 187.5, manual.Price.AsFloat(), 1e-9)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "2017-01-01", cfg.Origin)
	assert.Equal(t, 30, cfg.WindowDays)
	assert.Equal(t, "FEED_TOKEN", cfg.Feed.TokenEnv)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "data_dir = ["))
	assert.Error(t, err)

	cfg, err := LoadConfig(writeConfig(t, `origin = "June 2018"`))
	require.NoError(t, err)
	_, err = cfg.SyncOptions()
	assert.Error(t, err, "a malformed origin date must surface at option build time")
}

func TestConfig_TaxableFilter(t *testing.T) {
	cfg := &Config{Accounts: []AccountConfig{
		{ID: "123", Display: "TFSA"},
		{ID: "456", Display: "Margin", Taxable: true},
	}}
	filter := cfg.TaxableFilter()

	assert.True(t, filter(&Trade{Account: "Margin"}))
	assert.False(t, filter(&Trade{Account: "TFSA"}))
	assert.False(t, filter(&Trade{Account: "Unknown"}))
}
