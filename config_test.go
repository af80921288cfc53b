package folio

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseConfig_Template(t *testing.T) {
	cfg, err := ParseConfig([]byte(configTemplate))
	if err != nil {
		t.Fatalf("ParseConfig(template) error = %v", err)
	}
	if cfg.Profile.Broker != "UBS" || cfg.Currency != "CHF" || cfg.RiskFreeRate != 3 {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.Path != "folio.db" {
		t.Errorf("store = %+v", cfg.Store)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`version: v1
broker: saxo
currency: eur
risk_free_rate: 1.5
store:
  backend: redis
  redis_addr: localhost:6379
log:
  level: DEBUG
  encoding: json
columns:
  amount: ["Net amount"]
keywords:
  transfer: ["bonifico"]
master:
  total_row: 2
  account_rows: [40, 41]
`))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Profile.Broker != "Saxo" || cfg.Currency != "EUR" || cfg.RiskFreeRate != 1.5 {
		t.Errorf("config = %+v", cfg)
	}
	if got := cfg.Profile.Candidates[FieldAmount]; got[len(got)-1] != "Net amount" {
		t.Errorf("amount candidates = %v", got)
	}
	if cfg.Log != (LogConfig{Level: "debug", Encoding: "json"}) {
		t.Errorf("log = %+v", cfg.Log)
	}
	want := MasterLayout{DateRow: 0, DateCol: 3, TotalRow: 2, AccountRows: []int{40, 41}, LabelCol: 0, ValueCol: 3}
	if diff := cmp.Diff(want, cfg.Master); diff != "" {
		t.Errorf("master mismatch (-want +got):\n%s", diff)
	}
	if DefaultMasterLayout.AccountRows[0] != 44 {
		t.Errorf("default layout modified")
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"version", "version: v2", "unsupported config version"},
		{"unknown field", "version: v1\nfoo: bar", "field foo not found"},
		{"broker", "version: v1\nbroker: ibkr", "unknown broker"},
		{"backend", "version: v1\nstore:\n  backend: mongo", "unknown store backend"},
		{"redis addr", "version: v1\nstore:\n  backend: redis", "redis_addr is required"},
		{"log level", "version: v1\nlog:\n  level: verbose", "unknown log level"},
		{"column field", "version: v1\ncolumns:\n  price: [Prix]", "unknown field"},
		{"keyword category", "version: v1\nkeywords:\n  fx: [change]", "unknown keyword category"},
		{"negative layout", "version: v1\nmaster:\n  value_col: -1", "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("ParseConfig() error = nil, want %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseConfig() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", ConfigFileName)
	if cfg, err := LoadConfig(path); err != nil || cfg.Profile.Broker != "UBS" {
		t.Fatalf("LoadConfig() on a missing file = %v, %v", cfg, err)
	}
	if _, err := ReadConfig(path); err == nil {
		t.Errorf("ReadConfig() on a missing file should fail")
	}
	if err := InitConfig(path); err != nil {
		t.Fatalf("InitConfig() error = %v", err)
	}
	if err := InitConfig(path); err == nil {
		t.Errorf("InitConfig() must not overwrite an existing file")
	}
	if _, err := ReadConfig(path); err != nil {
		t.Errorf("ReadConfig() error = %v", err)
	}
}
