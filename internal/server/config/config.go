// Package config handles configuration for the vault server,
// including defaults, JSON overlay, environment variables and command-line flags.
package config

import "time"

// Config holds runtime settings for the vault server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the REST API.
//   - DatabaseDSN: optional PostgreSQL DSN (pgx). When empty, vaults are kept in VaultsFile.
//   - VaultsFile: path of the flat JSON vault registry.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenValidityDuration: lifetime of issued vault tokens.
//   - S3AccessKeyID / S3SecretAccessKey: credentials for the S3-compatible backend.
//   - S3Bucket / S3CompressedBucket / S3Region / S3BaseEndpoint: object storage settings.
//   - MaxUploadSize: per-request upload ceiling in bytes.
//   - DeleteConcurrency: parallel store calls allowed for recursive delete/rename.
type Config struct {
	EndpointAddrHTTP      string
	DatabaseDSN           string
	VaultsFile            string
	SecretKey             string
	TokenValidityDuration time.Duration
	S3AccessKeyID         string
	S3SecretAccessKey     string
	S3Bucket              string
	S3CompressedBucket    string
	S3Region              string
	S3BaseEndpoint        string
	S3ForcePathStyle      bool
	PresignExpiry         time.Duration
	MaxUploadSize         int64
	DeleteConcurrency     int
	AllowOrigin           string
	FFmpegPath            string
	SignalingTTL          time.Duration
	SignalingMaxSessions  int
	LogLevel              string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3000"
	c.DatabaseDSN = ""
	c.VaultsFile = "./users.json"
	c.SecretKey = "your_super_secret_jwt_key_please_change_this"
	c.TokenValidityDuration = 30 * 24 * time.Hour
	c.S3AccessKeyID = ""
	c.S3SecretAccessKey = ""
	c.S3Bucket = "file-storage"
	c.S3CompressedBucket = "compressed-files"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "https://gateway.storjshare.io"
	c.S3ForcePathStyle = true
	c.PresignExpiry = 15 * time.Minute
	c.MaxUploadSize = 2 << 30
	c.DeleteConcurrency = 8
	c.AllowOrigin = "*"
	c.FFmpegPath = ""
	c.SignalingTTL = 10 * time.Minute
	c.SignalingMaxSessions = 1024
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	if err := parseEnv(cfg); err != nil {
		panic(err)
	}
	parseFlags(cfg)
	return cfg
}
