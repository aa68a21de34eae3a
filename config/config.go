package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/fxbot/market"
	"github.com/rustyeddy/fxbot/messages"
	"github.com/rustyeddy/fxbot/notify"
	"gopkg.in/yaml.v3"
)

// Config represents the complete bot configuration
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Trading  TradingConfig  `json:"trading" yaml:"trading"`
	Oanda    OandaConfig    `json:"oanda" yaml:"oanda"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Telegram TelegramConfig `json:"telegram,omitempty" yaml:"telegram,omitempty"`
	TTS      TTSConfig      `json:"tts,omitempty" yaml:"tts,omitempty"`
	Debug    bool           `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// AccountConfig contains account parameters
type AccountConfig struct {
	Currency string  `json:"currency" yaml:"currency"`
	Cash     float64 `json:"cash" yaml:"cash"`
}

// TradingConfig contains the per-trade parameters shared by the live bot
// and the backtester
type TradingConfig struct {
	Instruments     []string `json:"instruments" yaml:"instruments"`
	Language        string   `json:"language" yaml:"language"`
	Risk            float64  `json:"risk" yaml:"risk"` // cash staked per trade
	ProfitRiskRatio float64  `json:"profit_risk_ratio" yaml:"profit_risk_ratio"`

	// Pips overrides the per-instrument pip units, keyed by instrument.
	// Instruments not listed fall back to the built-in table or, live, to
	// the broker's pipLocation.
	Pips map[string]float64 `json:"pips,omitempty" yaml:"pips,omitempty"`
}

// OandaConfig contains broker credentials. Token and account id fall back
// to the OANDA_TOKEN and OANDA_ACCOUNT_ID environment variables.
type OandaConfig struct {
	Token     string `json:"token,omitempty" yaml:"token,omitempty"`
	AccountID string `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	Practice  bool   `json:"practice" yaml:"practice"`
}

// JournalConfig contains trade ledger parameters
type JournalConfig struct {
	DBPath  string `json:"db_path" yaml:"db_path"`
	CSVPath string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
}

// TelegramConfig enables the Telegram report bot when both fields are set.
// Token and chat id fall back to TELEGRAM_TOKEN and TELEGRAM_CHAT_ID.
type TelegramConfig struct {
	Token      string `json:"token,omitempty" yaml:"token,omitempty"`
	ChatID     string `json:"chat_id,omitempty" yaml:"chat_id,omitempty"`
	Frequency  string `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	ReportHour int    `json:"report_hour,omitempty" yaml:"report_hour,omitempty"`
}

// TTSConfig enables spoken trade announcements
type TTSConfig struct {
	Enabled  bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// AccountType labels ledger rows by the credential environment
func (o OandaConfig) AccountType() string {
	if o.Practice {
		return "Demo"
	}
	return "Brokerage"
}

// LoadFromFile loads configuration from a file (JSON or YAML based on
// content), fills credential fields from the environment, and validates.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.fillFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

func (c *Config) fillFromEnv() {
	if c.Oanda.Token == "" {
		c.Oanda.Token = os.Getenv("OANDA_TOKEN")
	}
	if c.Oanda.AccountID == "" {
		c.Oanda.AccountID = os.Getenv("OANDA_ACCOUNT_ID")
	}
	if c.Telegram.Token == "" {
		c.Telegram.Token = os.Getenv("TELEGRAM_TOKEN")
	}
	if c.Telegram.ChatID == "" {
		c.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
	}
}

// Validate checks if the configuration is valid. Unknown languages are
// replaced with EN-US rather than rejected.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Cash < 0 {
		return fmt.Errorf("account.cash must not be negative")
	}
	if len(c.Trading.Instruments) == 0 {
		return fmt.Errorf("trading.instruments is required")
	}
	for _, in := range c.Trading.Instruments {
		if _, ok := market.Instruments[in]; ok {
			continue
		}
		if _, ok := c.Trading.Pips[in]; ok {
			continue
		}
		return fmt.Errorf("unknown instrument %s: add it to trading.pips", in)
	}
	if c.Trading.Risk <= 0 {
		return fmt.Errorf("trading.risk must be positive")
	}
	if c.Trading.ProfitRiskRatio <= 0 {
		return fmt.Errorf("trading.profit_risk_ratio must be positive")
	}
	if c.Trading.Language != messages.LangENUS && c.Trading.Language != messages.LangESES {
		fmt.Printf("WARNING: invalid language %q, switching to EN-US\n", c.Trading.Language)
		c.Trading.Language = messages.LangENUS
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if (c.Telegram.Token == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram requires both token and chat_id")
	}
	if c.Telegram.Token != "" {
		switch c.Telegram.Frequency {
		case "":
			c.Telegram.Frequency = notify.FreqPerTrade
		case notify.FreqPerTrade, notify.FreqDaily, notify.FreqWeekly:
		default:
			return fmt.Errorf("telegram.frequency must be Trade, Daily or Weekly")
		}
		if c.Telegram.ReportHour == 0 {
			c.Telegram.ReportHour = 22
		}
		if c.Telegram.ReportHour < 0 || c.Telegram.ReportHour > 23 {
			return fmt.Errorf("telegram.report_hour must be between 0 and 23")
		}
	}
	if c.TTS.Enabled &&
		c.TTS.Language != messages.LangENUS && c.TTS.Language != messages.LangESES {
		fmt.Printf("WARNING: invalid tts language %q, switching to EN-US\n", c.TTS.Language)
		c.TTS.Language = messages.LangENUS
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency: "EUR",
			Cash:     10000,
		},
		Trading: TradingConfig{
			Instruments:     []string{"EUR_USD"},
			Language:        messages.LangENUS,
			Risk:            100,
			ProfitRiskRatio: 1.5,
		},
		Oanda: OandaConfig{
			Practice: true,
		},
		Journal: JournalConfig{
			DBPath: "./trades.db",
		},
	}
}
