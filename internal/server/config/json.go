package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/storjvault/internal/flagx"
	"github.com/dmitrijs2005/storjvault/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "720h" and integer nanoseconds.
//
// Pointer fields distinguish "absent" from "zero": only keys present in the
// file overwrite the current Config values.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	DatabaseDSN           *string         `json:"database_dsn"`
	VaultsFile            *string         `json:"vaults_file"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	S3AccessKeyID         *string         `json:"s3_access_key_id"`
	S3SecretAccessKey     *string         `json:"s3_secret_access_key"`
	S3Bucket              *string         `json:"s3_bucket"`
	S3CompressedBucket    *string         `json:"s3_compressed_bucket"`
	S3Region              *string         `json:"s3_region"`
	S3BaseEndpoint        *string         `json:"s3_base_endpoint"`
	S3ForcePathStyle      *bool           `json:"s3_force_path_style"`
	PresignExpiry         *timex.Duration `json:"presign_expiry"`
	MaxUploadSize         *int64          `json:"max_upload_size"`
	DeleteConcurrency     *int            `json:"delete_concurrency"`
	AllowOrigin           *string         `json:"allow_origin"`
	FFmpegPath            *string         `json:"ffmpeg_path"`
	SignalingTTL          *timex.Duration `json:"signaling_ttl"`
	SignalingMaxSessions  *int            `json:"signaling_max_sessions"`
	LogLevel              *string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config flag into the provided Config. Without the flag nothing is
// loaded. Unreadable files or invalid JSON panic: a half-applied config is
// worse than failing at startup.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.VaultsFile, c.VaultsFile)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3AccessKeyID, c.S3AccessKeyID)
	setString(&config.S3SecretAccessKey, c.S3SecretAccessKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3CompressedBucket, c.S3CompressedBucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.AllowOrigin, c.AllowOrigin)
	setString(&config.FFmpegPath, c.FFmpegPath)
	setString(&config.LogLevel, c.LogLevel)

	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.PresignExpiry != nil {
		config.PresignExpiry = c.PresignExpiry.Duration
	}
	if c.SignalingTTL != nil {
		config.SignalingTTL = c.SignalingTTL.Duration
	}
	if c.S3ForcePathStyle != nil {
		config.S3ForcePathStyle = *c.S3ForcePathStyle
	}
	if c.MaxUploadSize != nil {
		config.MaxUploadSize = *c.MaxUploadSize
	}
	if c.DeleteConcurrency != nil {
		config.DeleteConcurrency = *c.DeleteConcurrency
	}
	if c.SignalingMaxSessions != nil {
		config.SignalingMaxSessions = *c.SignalingMaxSessions
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
