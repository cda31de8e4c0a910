package folio

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the static configuration of a batch run: where the data lives,
// which accounts to sync, and the correction tables (symbol remaps, excluded
// symbols, manual trades). Lookup tables live here, not inline in logic.
type Config struct {
	DataDir    string `toml:"data_dir"`
	Origin     string `toml:"origin"`
	WindowDays int    `toml:"window_days"`

	Feed     FeedConfig          `toml:"feed"`
	Accounts []AccountConfig     `toml:"accounts"`
	Remaps   map[string]string   `toml:"remaps"`
	Exclude  []string            `toml:"exclude"`
	Manual   []ManualTradeConfig `toml:"manual_trades"`
	Logging  LoggingConfig       `toml:"logging"`
}

// FeedConfig locates the brokerage API. The bearer token is read from the
// environment (see TokenEnv), never stored in the file.
type FeedConfig struct {
	Host     string `toml:"host"`
	TokenEnv string `toml:"token_env"`
}

// AccountConfig maps a brokerage account id to its display name, and flags
// whether its trades count toward capital gains.
type AccountConfig struct {
	ID      string `toml:"id"`
	Display string `toml:"display"`
	Taxable bool   `toml:"taxable"`
}

// ManualTradeConfig is a hardcoded historical correction for an event the
// feed is missing or misreports.
type ManualTradeConfig struct {
	Symbol   string  `toml:"symbol"`
	Date     string  `toml:"date"`
	Action   string  `toml:"action"`
	Quantity float64 `toml:"quantity"`
	Price    float64 `toml:"price"`
	Currency string  `toml:"currency"`
	Account  string  `toml:"account"`
}

// LoggingConfig holds the log level ("debug", "info", "warn", "error").
type LoggingConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and validates a TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config %q: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config %q: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Origin == "" {
		c.Origin = "2017-01-01"
	}
	if c.WindowDays == 0 {
		c.WindowDays = 30
	}
	if c.Feed.TokenEnv == "" {
		c.Feed.TokenEnv = "FEED_TOKEN"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// SyncOptions materializes the configuration into the coordinator's option
// tables.
func (c *Config) SyncOptions() (SyncOptions, error) {
	origin, err := ParseDate(c.Origin)
	if err != nil {
		return SyncOptions{}, fmt.Errorf("invalid origin date: %w", err)
	}

	opts := SyncOptions{
		Origin:          origin,
		WindowDays:      c.WindowDays,
		DisplayAccounts: make(map[string]string, len(c.Accounts)),
		Remaps:          c.Remaps,
	}
	for _, a := range c.Accounts {
		opts.Accounts = append(opts.Accounts, a.ID)
		opts.DisplayAccounts[a.ID] = a.Display
	}

	for _, m := range c.Manual {
		on, err := ParseDate(m.Date)
		if err != nil {
			return SyncOptions{}, fmt.Errorf("invalid manual trade date for %s: %w", m.Symbol, err)
		}
		opts.ManualTrades = append(opts.ManualTrades, Trade{
			Symbol:   m.Symbol,
			Date:     on,
			Action:   Action(m.Action),
			Quantity: Q(m.Quantity),
			Price:    M(m.Price, m.Currency),
			Account:  m.Account,
		})
	}
	return opts, nil
}

// ExcludeSet returns the excluded symbols as a lookup set.
func (c *Config) ExcludeSet() map[string]bool {
	set := make(map[string]bool, len(c.Exclude))
	for _, s := range c.Exclude {
		set[s] = true
	}
	return set
}

// TaxableFilter returns the trade filter for the capital gains pass. Only
// trades from accounts flagged taxable count.
func (c *Config) TaxableFilter() func(*Trade) bool {
	taxable := make(map[string]bool, len(c.Accounts))
	for _, a := range c.Accounts {
		if a.Taxable {
			taxable[a.Display] = true
		}
	}
	return func(t *Trade) bool { return taxable[t.Account] }
}
