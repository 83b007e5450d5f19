package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  string

	// Config file
	ConfigFile string

	// Record store configuration
	StoreBaseURL    string
	SitePath        string
	RecordsList     string
	ArtifactLibrary string
	AccessToken     string
	AuthHeader      string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables
//  3. .env files
//  4. Config file (~/.dossier.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up Viper for environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Bind store credentials explicitly so .env values are visible
	bindStoreEnv()

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".dossier")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Output:  viper.GetString("output"),

		// Config file
		ConfigFile: viper.ConfigFileUsed(),

		// Record store configuration
		StoreBaseURL:    viper.GetString("store_base_url"),
		SitePath:        viper.GetString("site_path"),
		RecordsList:     viper.GetString("records_list"),
		ArtifactLibrary: viper.GetString("artifact_library"),
		AccessToken:     firstNonEmpty(viper.GetString("access_token"), viper.GetString("DOSSIER_ACCESS_TOKEN")),
		AuthHeader:      viper.GetString("auth_header"),

		// Logging configuration
		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, output, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if output != "" {
		c.Output = output
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindStoreEnv explicitly binds record store environment variables to Viper.
func bindStoreEnv() {
	envKeys := []string{
		"DOSSIER_STORE_BASE_URL",
		"DOSSIER_SITE_PATH",
		"DOSSIER_RECORDS_LIST",
		"DOSSIER_ARTIFACT_LIBRARY",
		"DOSSIER_ACCESS_TOKEN",
		"DOSSIER_AUTH_HEADER",
	}

	for _, key := range envKeys {
		if err := viper.BindEnv(key); err != nil {
			// Log warning but continue - this isn't critical
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}

	// Map prefixed env vars onto their config keys
	_ = viper.BindEnv("store_base_url", "DOSSIER_STORE_BASE_URL")
	_ = viper.BindEnv("site_path", "DOSSIER_SITE_PATH")
	_ = viper.BindEnv("records_list", "DOSSIER_RECORDS_LIST")
	_ = viper.BindEnv("artifact_library", "DOSSIER_ARTIFACT_LIBRARY")
	_ = viper.BindEnv("access_token", "DOSSIER_ACCESS_TOKEN")
	_ = viper.BindEnv("auth_header", "DOSSIER_AUTH_HEADER")
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
