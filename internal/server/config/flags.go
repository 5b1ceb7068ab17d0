package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN (empty keeps the JSON vault file)
//	-f string   JSON vault file path
//	-s string   JWT HMAC secret key
//	-t int      token validity, hours
//	-u string   S3 access key id
//	-p string   S3 secret access key
//	-b string   S3 bucket name
//	-k string   S3 bucket for compressed artifacts
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "https://gateway.storjshare.io")
//	-m int      max upload size, bytes
//	-l string   log level
//	-x string   ffmpeg binary used for video compression
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flag.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-f", "-s", "-t", "-u", "-p", "-b", "-k", "-g", "-e", "-m", "-l", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.VaultsFile, "f", config.VaultsFile, "vault registry JSON file")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token_validity_duration (in hours)")

	fs.StringVar(&config.S3AccessKeyID, "u", config.S3AccessKeyID, "S3 access key id")
	fs.StringVar(&config.S3SecretAccessKey, "p", config.S3SecretAccessKey, "S3 secret access key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3CompressedBucket, "k", config.S3CompressedBucket, "S3 bucket for compressed files")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.Int64Var(&config.MaxUploadSize, "m", config.MaxUploadSize, "max upload size in bytes")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.FFmpegPath, "x", config.FFmpegPath, "ffmpeg binary path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
}
