package app

import "testing"

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{
		Output:   "json",
		LogLevel: "debug",
	}

	// Empty flag values must not clobber config-file or env settings.
	config.UpdateFromFlags(true, false, true, "", "")

	if !config.Verbose {
		t.Error("Verbose not updated")
	}
	if !config.NoColor {
		t.Error("NoColor not updated")
	}
	if config.Output != "json" {
		t.Errorf("Output = %q, want preserved json", config.Output)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want preserved debug", config.LogLevel)
	}

	config.UpdateFromFlags(false, true, false, "yaml", "warn")

	if config.Verbose {
		t.Error("Verbose not cleared")
	}
	if !config.Quiet {
		t.Error("Quiet not updated")
	}
	if config.Output != "yaml" {
		t.Errorf("Output = %q, want yaml", config.Output)
	}
	if config.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", config.LogLevel)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		values []string
		want   string
	}{
		{[]string{"", "b", "c"}, "b"},
		{[]string{"a", "b"}, "a"},
		{[]string{"", ""}, ""},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := firstNonEmpty(tt.values...); got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.values, got, tt.want)
		}
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DOSSIER_STORE_BASE_URL", "https://records.example.com")
	t.Setenv("DOSSIER_RECORDS_LIST", "CustomRecords")
	t.Setenv("DOSSIER_ACCESS_TOKEN", "env-token")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.StoreBaseURL != "https://records.example.com" {
		t.Errorf("StoreBaseURL = %q", config.StoreBaseURL)
	}
	if config.RecordsList != "CustomRecords" {
		t.Errorf("RecordsList = %q", config.RecordsList)
	}
	if config.AccessToken != "env-token" {
		t.Errorf("AccessToken = %q", config.AccessToken)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", config.LogLevel)
	}
}
