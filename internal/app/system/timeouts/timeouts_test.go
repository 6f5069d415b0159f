package timeouts

import (
	"testing"
	"time"
)

func TestConfigureIgnoresZeroValues(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: 12 * time.Second})
	if Short() != 12*time.Second {
		t.Errorf("Short = %v, want 12s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium = %v, zero config values must keep the default", Medium())
	}
}

func TestConfigureFromEnv(t *testing.T) {
	t.Cleanup(Reset)
	t.Setenv("TIMEOUT_LONG", "45s")
	t.Setenv("TIMEOUT_PING", "not a duration")

	if n := ConfigureFromEnv(); n != 1 {
		t.Errorf("configured = %d, want 1", n)
	}
	if Long() != 45*time.Second {
		t.Errorf("Long = %v, want 45s", Long())
	}
	if Ping() != DefaultPing {
		t.Errorf("Ping = %v, invalid values must keep the default", Ping())
	}
}
