package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/trafficpulse/report-manager/internal/analytics/ga4"
	httpapi "github.com/trafficpulse/report-manager/internal/api/http"
	"github.com/trafficpulse/report-manager/internal/mail"
	"github.com/trafficpulse/report-manager/internal/ratelimit"
	"github.com/trafficpulse/report-manager/internal/report"
	"github.com/trafficpulse/report-manager/log"
)

// Config represents the global configuration for the service.
type Config struct {
	Logger    log.Config       `mapstructure:"logger"`
	HTTP      httpapi.Config   `mapstructure:"http"`
	GA4       ga4.Config       `mapstructure:"ga4"`
	Mailer    mail.Config      `mapstructure:"mailer"`
	Report    report.Config    `mapstructure:"report"`
	RateLimit ratelimit.Config `mapstructure:"ratelimit"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values.
func LoadConfig(cfgFile string) (*Config, error) {
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	bindEnvVars()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			// If config file doesn't exist, continue with env vars only
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/config/report-manager")
		viper.AddConfigPath("/etc/report-manager")
		// Try to read config, but don't fail if it doesn't exist
		_ = viper.ReadInConfig()
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	return &config, nil
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars() {
	// Logger
	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	viper.BindEnv("http.port", "HTTP_PORT")
	viper.BindEnv("http.address", "HTTP_ADDRESS")
	viper.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")

	// GA4
	viper.BindEnv("ga4.credentials_json", "GA4_CREDENTIALS_JSON")
	viper.BindEnv("ga4.page_size", "GA4_PAGE_SIZE")

	// Mailer
	viper.BindEnv("mailer.sendgrid_api_key", "MAILER_SENDGRID_API_KEY")
	viper.BindEnv("mailer.from_email", "MAILER_FROM_EMAIL")
	viper.BindEnv("mailer.from_email_name", "MAILER_FROM_EMAIL_NAME")

	// Report engine
	viper.BindEnv("report.max_concurrent_queries", "REPORT_MAX_CONCURRENT_QUERIES")
	viper.BindEnv("report.query_timeout", "REPORT_QUERY_TIMEOUT")

	// Rate limits
	viper.BindEnv("ratelimit.reports_per_hour", "RATELIMIT_REPORTS_PER_HOUR")
	viper.BindEnv("ratelimit.emails_per_hour", "RATELIMIT_EMAILS_PER_HOUR")
}
