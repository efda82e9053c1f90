package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// dotEnvFile is the file loadDotEnv reads; tests point it elsewhere.
var dotEnvFile = ".env"

// loadDotEnv copies variables from .env into the process environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv() {
	_ = godotenv.Load(dotEnvFile)
}

// parseEnv overlays values from environment variables:
//
//	DATABASE_URL, SECRET_KEY, DEBUG, ALLOWED_HOSTS (comma separated),
//	ULM_HTTP_ADDR, ULM_GRPC_ADDR, ULM_TIME_ZONE, ULM_LOG_FORMAT,
//	ULM_LOG_LEVEL, ULM_COOKIE_SECURE, ULM_S3_USER, ULM_S3_PASSWORD,
//	ULM_S3_BUCKET, ULM_S3_REGION, ULM_S3_ENDPOINT.
//
// A boolean that does not parse panics.
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", key, err))
		}
		*dst = b
	}

	str("DATABASE_URL", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)
	boolean("DEBUG", &config.Debug)
	if v, ok := lookup("ALLOWED_HOSTS"); ok && v != "" {
		config.AllowedHosts = splitHosts(v)
	}
	str("ULM_HTTP_ADDR", &config.HTTPAddr)
	str("ULM_GRPC_ADDR", &config.GRPCAddr)
	str("ULM_TIME_ZONE", &config.TimeZone)
	str("ULM_LOG_FORMAT", &config.LogFormat)
	str("ULM_LOG_LEVEL", &config.LogLevel)
	boolean("ULM_COOKIE_SECURE", &config.CookieSecure)
	str("ULM_S3_USER", &config.S3RootUser)
	str("ULM_S3_PASSWORD", &config.S3RootPassword)
	str("ULM_S3_BUCKET", &config.S3Bucket)
	str("ULM_S3_REGION", &config.S3Region)
	str("ULM_S3_ENDPOINT", &config.S3BaseEndpoint)
}

func splitHosts(v string) []string {
	var hosts []string
	for _, h := range strings.Split(v, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
