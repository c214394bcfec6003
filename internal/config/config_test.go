package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.DefaultCapacity != 120 {
		t.Errorf("DefaultCapacity = %d, want 120", cfg.DefaultCapacity)
	}
	if cfg.LiveWindowMinutes != 60 {
		t.Errorf("LiveWindowMinutes = %d, want 60", cfg.LiveWindowMinutes)
	}
	if cfg.StaleThresholdMinutes != 30 {
		t.Errorf("StaleThresholdMinutes = %d, want 30", cfg.StaleThresholdMinutes)
	}
	if cfg.HighActivityVolume != 0 {
		t.Errorf("HighActivityVolume = %d, want 0", cfg.HighActivityVolume)
	}
	if cfg.DisplayLimit != 3 {
		t.Errorf("DisplayLimit = %d, want 3", cfg.DisplayLimit)
	}
	if cfg.EntryEventsTopic != "venue-entry-events" {
		t.Errorf("EntryEventsTopic = %q, want %q", cfg.EntryEventsTopic, "venue-entry-events")
	}
	if cfg.KafkaGroupID != "venue-pulse-live-worker" {
		t.Errorf("KafkaGroupID = %q, want default", cfg.KafkaGroupID)
	}
	if cfg.KafkaBrokers != "" {
		t.Errorf("KafkaBrokers = %q, want empty", cfg.KafkaBrokers)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("DEFAULT_CAPACITY", "250")
	os.Setenv("LIVE_WINDOW_MINUTES", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.DefaultCapacity != 250 {
		t.Errorf("DefaultCapacity = %d, want 250", cfg.DefaultCapacity)
	}
	if cfg.LiveWindowMinutes != 15 {
		t.Errorf("LiveWindowMinutes = %d, want 15", cfg.LiveWindowMinutes)
	}
}

func TestLoad_Validation(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"negative capacity", "DEFAULT_CAPACITY", "-1"},
		{"zero window", "LIVE_WINDOW_MINUTES", "0"},
		{"negative window", "LIVE_WINDOW_MINUTES", "-5"},
		{"zero display limit", "DISPLAY_LIMIT", "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv(tc.key, tc.value)

			cfg, err := Load()
			if err == nil {
				t.Fatal("Load should return error")
			}
			if cfg != nil {
				t.Error("Load should return nil config on error")
			}
		})
	}
}

func TestLiveWindow(t *testing.T) {
	os.Clearenv()
	os.Setenv("LIVE_WINDOW_MINUTES", "45")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.LiveWindow(); got != 45*time.Minute {
		t.Errorf("LiveWindow = %v, want %v", got, 45*time.Minute)
	}
}

func TestStaleThreshold(t *testing.T) {
	os.Clearenv()
	os.Setenv("STALE_THRESHOLD_MINUTES", "20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.StaleThreshold(); got != 20*time.Minute {
		t.Errorf("StaleThreshold = %v, want %v", got, 20*time.Minute)
	}
}

func TestKafkaBrokersList(t *testing.T) {
	testCases := []struct {
		name    string
		brokers string
		want    []string
	}{
		{"empty", "", nil},
		{"single", "localhost:9092", []string{"localhost:9092"}},
		{"multiple", "a:9092,b:9092", []string{"a:9092", "b:9092"}},
		{"spaces and blanks", " a:9092 , , b:9092 ", []string{"a:9092", "b:9092"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{KafkaBrokers: tc.brokers}
			got := cfg.KafkaBrokersList()
			if len(got) != len(tc.want) {
				t.Fatalf("KafkaBrokersList = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("broker[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestKafkaBrokersList_NilConfig(t *testing.T) {
	var cfg *Config
	if got := cfg.KafkaBrokersList(); got != nil {
		t.Errorf("KafkaBrokersList on nil config = %v, want nil", got)
	}
}
