package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `
api:
  address: "127.0.0.1"
  port: 8080
database:
  path: "/tmp/entsoe-test.db"
sensor:
  name: "home"
  currency: "EUR"
price:
  area: "10YNL----------L"
  security_token: "test-token"
  nordpool_area: "NL"
gui:
  timezone: "Europe/Amsterdam"
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	config, err := Load(writeTestConfig(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	t.Run("Api", func(t *testing.T) {
		if config.Api.Address != "127.0.0.1" {
			t.Errorf("expected address 127.0.0.1, got %s", config.Api.Address)
		}
		if config.Api.Port != 8080 {
			t.Errorf("expected port 8080, got %d", config.Api.Port)
		}
	})

	t.Run("Sensor", func(t *testing.T) {
		if config.Sensor.GetName() != "home" {
			t.Errorf("expected sensor name 'home', got %q", config.Sensor.GetName())
		}
		if config.Sensor.GetCurrency() != "EUR" {
			t.Errorf("expected currency EUR, got %q", config.Sensor.GetCurrency())
		}
	})

	t.Run("Price", func(t *testing.T) {
		if config.Price.Area != "10YNL----------L" {
			t.Errorf("expected area 10YNL----------L, got %q", config.Price.Area)
		}
		if config.Price.SecurityToken != "test-token" {
			t.Errorf("expected security token 'test-token', got %q", config.Price.SecurityToken)
		}
		if config.Price.GetRunAt() == "" {
			t.Errorf("expected a default run_at cron spec")
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		if config.Database.GetDataRetentionDays() != 90 {
			t.Errorf("expected default data retention 90, got %d", config.Database.GetDataRetentionDays())
		}
		if config.Mqtt.Enabled() {
			t.Errorf("expected mqtt disabled without a host")
		}
		if config.Mqtt.GetTopicPrefix() != "entsoe" {
			t.Errorf("expected default topic prefix 'entsoe', got %q", config.Mqtt.GetTopicPrefix())
		}
		if config.Logging.GetDbMaxEntries() != 10000 {
			t.Errorf("expected default db max entries 10000, got %d", config.Logging.GetDbMaxEntries())
		}
	})
}
