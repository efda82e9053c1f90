package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/flagx"
	"github.com/dmitrijs2005/ulmg70/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Interval fields use
// timex.Duration so both "10s" and integer nanoseconds are accepted.
// Pointer fields distinguish "absent" from an explicit false.
type JsonConfig struct {
	HTTPAddr            string         `json:"http_addr"`
	GRPCAddr            string         `json:"grpc_addr"`
	DatabaseDSN         string         `json:"database_dsn"`
	SecretKey           string         `json:"secret_key"`
	Debug               *bool          `json:"debug"`
	AllowedHosts        []string       `json:"allowed_hosts"`
	TimeZone            string         `json:"time_zone"`
	LogFormat           string         `json:"log_format"`
	LogLevel            string         `json:"log_level"`
	CookieSecure        *bool          `json:"cookie_secure"`
	HealthCheckInterval timex.Duration `json:"health_check_interval"`
	ShutdownTimeout     timex.Duration `json:"shutdown_timeout"`
	S3RootUser          string         `json:"s3_root_user"`
	S3RootPassword      string         `json:"s3_root_password"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the file named by -c / -config. Keys missing
// from the file leave the current value untouched. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFile(args)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.Debug != nil {
		config.Debug = *c.Debug
	}
	if len(c.AllowedHosts) > 0 {
		config.AllowedHosts = c.AllowedHosts
	}
	setString(&config.TimeZone, c.TimeZone)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	setDuration(&config.HealthCheckInterval, c.HealthCheckInterval.Duration)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout.Duration)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
