package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
environment: test
instruments: [BTC-USDT, ETH-USDT]
engine:
  window: 8
  max_lag: 60
source:
  type: csv
  data_dir: testdata
backend:
  type: none
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	c, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Engine.Window != 8 || c.Engine.MaxLag != 60 {
		t.Errorf("unexpected engine config: %+v", c.Engine)
	}
	if len(c.Instruments) != 2 {
		t.Errorf("expected 2 instruments, got %d", len(c.Instruments))
	}
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, `
environment: test
instruments: [BTC-USDT, ETH-USDT]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Engine.Window != 8 {
		t.Errorf("expected default window 8, got %d", c.Engine.Window)
	}
	if c.Engine.MaxLag != 60 {
		t.Errorf("expected default max lag 60, got %d", c.Engine.MaxLag)
	}
	if c.Source.Type != "csv" {
		t.Errorf("expected default source csv, got %s", c.Source.Type)
	}
	if c.Backend.Type != "none" {
		t.Errorf("expected default backend none, got %s", c.Backend.Type)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing environment", `
instruments: [BTC-USDT, ETH-USDT]
`},
		{"window too small", `
environment: test
instruments: [BTC-USDT, ETH-USDT]
engine:
  window: 1
`},
		{"negative max lag", `
environment: test
instruments: [BTC-USDT, ETH-USDT]
engine:
  max_lag: -5
`},
		{"one instrument", `
environment: test
instruments: [BTC-USDT]
`},
		{"bad backend", `
environment: test
instruments: [BTC-USDT, ETH-USDT]
backend:
  type: postgres
`},
		{"kafka backend without brokers", `
environment: test
instruments: [BTC-USDT, ETH-USDT]
backend:
  type: kafka
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("INSTRUMENTS", "SOL-USDT,XRP-USDT,ADA-USDT")
	t.Setenv("BACKEND", "none")

	c, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Instruments) != 3 || c.Instruments[0] != "SOL-USDT" {
		t.Errorf("env override not applied: %v", c.Instruments)
	}
}
