package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/ulmg70/internal/flagx"
)

// flagNames lists the flags parseFlags owns; anything else on the command
// line belongs to someone else (cobra subcommands, -c) and is filtered out.
var flagNames = []string{"a", "grpc", "d", "s", "z", "l", "debug", "u", "p", "b", "g", "e"}

// parseFlags populates Config from command-line flags.
//
//	-a string    HTTP bind address (e.g. ":8000")
//	-grpc string gRPC health bind address
//	-d string    database DSN
//	-s string    secret key
//	-z string    time zone (IANA name)
//	-l string    log format: json, text or zap
//	-debug       debug mode
//	-u string    S3 root user
//	-p string    S3 root password
//	-b string    S3 bucket name
//	-g string    S3 region
//	-e string    S3 base endpoint
//
// A malformed flag panics.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "grpc", config.GRPCAddr, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.TimeZone, "z", config.TimeZone, "time zone")
	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format")
	fs.BoolVar(&config.Debug, "debug", config.Debug, "debug mode")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(flagx.FilterArgs(args, flagNames)); err != nil {
		panic(err)
	}
}
