package folio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the default name of the configuration file.
const ConfigFileName = "folio.yaml"

// configTemplate is the default configuration file with comments.
// yaml.v3 does not preserve comments, so the template is kept as a string.
const configTemplate = `# The configuration file version.
#
# Required. The only current valid version is v1.
version: v1
# The broker profile used to read exports: ubs or saxo.
broker: ubs
# The reporting currency of the accounts.
currency: CHF
# The annual risk-free rate used by the Sharpe ratio, in percent.
risk_free_rate: 3
# Where the last imported result is cached.
store:
  # memory, sqlite or redis.
  backend: sqlite
  # The SQLite database file.
  path: folio.db
  # The Redis server address, for the redis backend.
  # redis_addr: localhost:6379
# Logging.
log:
  # debug, info, warn or error.
  level: info
  # console or json.
  encoding: console
# Extra header names per field, tried after the built-in ones.
#
# Optional. Fields are date, desc, amount, currency, type, symbol, account, value,
# twr, accountValue and dailyReturn.
# columns:
#   amount: ["Montant net"]
# Extra keywords per category, tried after the built-in ones.
#
# Optional. Categories are transfer, dividend, interest, commission, tax and trade.
# keywords:
#   transfer: ["bonifico"]
# Layout of the "Client <id>" sheet of monthly master files (zero-based).
#
# Optional.
# master:
#   total_row: 1
#   account_rows: [44]
#   label_col: 0
#   value_col: 3
`

// ExternalConfig is the YAML-serializable configuration file structure.
type ExternalConfig struct {
	Version      string                `yaml:"version"`
	Broker       string                `yaml:"broker"`
	Currency     string                `yaml:"currency"`
	RiskFreeRate *float64              `yaml:"risk_free_rate"`
	Store        ExternalStoreConfig   `yaml:"store"`
	Log          ExternalLogConfig     `yaml:"log"`
	Columns      map[string][]string   `yaml:"columns"`
	Keywords     map[string][]string   `yaml:"keywords"`
	Master       *ExternalMasterConfig `yaml:"master"`
}

// ExternalStoreConfig configures the result cache.
type ExternalStoreConfig struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redis_addr"`
}

// ExternalLogConfig configures logging.
type ExternalLogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// ExternalMasterConfig overrides the master file layout.
type ExternalMasterConfig struct {
	DateRow     *int  `yaml:"date_row"`
	DateCol     *int  `yaml:"date_col"`
	TotalRow    *int  `yaml:"total_row"`
	AccountRows []int `yaml:"account_rows"`
	LabelCol    *int  `yaml:"label_col"`
	ValueCol    *int  `yaml:"value_col"`
}

// Config is the validated runtime configuration.
type Config struct {
	Profile      Profile
	// Columns are the extra candidate headers merged into Profile.
	Columns      map[Field][]string
	Currency     string
	RiskFreeRate float64 // percent
	Store        StoreConfig
	Log          LogConfig
	Keywords     map[string][]string
	Master       MasterLayout
}

// StoreConfig selects and configures the result cache backend.
type StoreConfig struct {
	Backend   string
	Path      string
	RedisAddr string
}

// LogConfig configures the logger.
type LogConfig struct {
	Level    string
	Encoding string
}

// DefaultConfig returns the configuration used when there is no configuration file.
func DefaultConfig() *Config {
	return &Config{
		Profile:      UBS,
		Currency:     "CHF",
		RiskFreeRate: DefaultRiskFreeRate,
		Store:        StoreConfig{Backend: "sqlite", Path: "folio.db"},
		Log:          LogConfig{Level: "info", Encoding: "console"},
		Master:       DefaultMasterLayout,
	}
}

var (
	storeBackends = []string{"memory", "sqlite", "redis"}
	logLevels     = []string{"debug", "info", "warn", "error"}
	logEncodings  = []string{"console", "json"}
)

// NewConfig validates an ExternalConfig and returns a runtime Config.
func NewConfig(ext ExternalConfig) (*Config, error) {
	if ext.Version != "v1" {
		return nil, fmt.Errorf("unsupported config version %q, must be v1", ext.Version)
	}
	cfg := DefaultConfig()

	profile, err := ProfileByName(ext.Broker)
	if err != nil {
		return nil, err
	}
	if len(ext.Columns) > 0 {
		extra := make(map[Field][]string, len(ext.Columns))
		for name, candidates := range ext.Columns {
			f, err := ParseField(name)
			if err != nil {
				return nil, fmt.Errorf("columns: %w", err)
			}
			extra[f] = candidates
		}
		profile = profile.With(extra)
		cfg.Columns = extra
	}
	cfg.Profile = profile

	if ext.Currency != "" {
		cfg.Currency = strings.ToUpper(ext.Currency)
	}
	if ext.RiskFreeRate != nil {
		cfg.RiskFreeRate = *ext.RiskFreeRate
	}

	if ext.Store.Backend != "" {
		cfg.Store.Backend = strings.ToLower(ext.Store.Backend)
	}
	if !slices.Contains(storeBackends, cfg.Store.Backend) {
		return nil, fmt.Errorf("unknown store backend %q, must be one of %v", ext.Store.Backend, storeBackends)
	}
	if ext.Store.Path != "" {
		cfg.Store.Path = ext.Store.Path
	}
	cfg.Store.RedisAddr = ext.Store.RedisAddr
	if cfg.Store.Backend == "redis" && cfg.Store.RedisAddr == "" {
		return nil, errors.New("store.redis_addr is required for the redis backend")
	}

	if ext.Log.Level != "" {
		cfg.Log.Level = strings.ToLower(ext.Log.Level)
	}
	if !slices.Contains(logLevels, cfg.Log.Level) {
		return nil, fmt.Errorf("unknown log level %q, must be one of %v", ext.Log.Level, logLevels)
	}
	if ext.Log.Encoding != "" {
		cfg.Log.Encoding = strings.ToLower(ext.Log.Encoding)
	}
	if !slices.Contains(logEncodings, cfg.Log.Encoding) {
		return nil, fmt.Errorf("unknown log encoding %q, must be one of %v", ext.Log.Encoding, logEncodings)
	}

	// fail early on unknown categories.
	if _, err := NewClassifier(ext.Keywords); err != nil {
		return nil, fmt.Errorf("keywords: %w", err)
	}
	cfg.Keywords = ext.Keywords

	if m := ext.Master; m != nil {
		set := func(dst *int, src *int, name string) error {
			if src == nil {
				return nil
			}
			if *src < 0 {
				return fmt.Errorf("master.%s must not be negative", name)
			}
			*dst = *src
			return nil
		}
		if err := errors.Join(
			set(&cfg.Master.DateRow, m.DateRow, "date_row"),
			set(&cfg.Master.DateCol, m.DateCol, "date_col"),
			set(&cfg.Master.TotalRow, m.TotalRow, "total_row"),
			set(&cfg.Master.LabelCol, m.LabelCol, "label_col"),
			set(&cfg.Master.ValueCol, m.ValueCol, "value_col"),
		); err != nil {
			return nil, err
		}
		if m.AccountRows != nil {
			cfg.Master.AccountRows = slices.Clone(m.AccountRows)
		}
	}
	return cfg, nil
}

// ParseConfig decodes and validates a YAML configuration.
func ParseConfig(data []byte) (*Config, error) {
	var ext ExternalConfig
	if err := unmarshalYAMLStrict(data, &ext); err != nil {
		return nil, err
	}
	return NewConfig(ext)
}

// ReadConfig reads and validates the configuration file.
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found at %s, run \"fa init-config\" to create one", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfig is like ReadConfig, but returns the default configuration when the file does not exist.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return ReadConfig(path)
}

// InitConfig writes the documented configuration template at path.
// It fails if the file already exists.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(configTemplate), 0o644)
}

// unmarshalYAMLStrict unmarshals the data as YAML, rejecting unknown fields.
// An empty document leaves v untouched.
func unmarshalYAMLStrict(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("could not unmarshal as YAML: %w", err)
	}
	return nil
}
