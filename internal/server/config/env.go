package config

import (
	"errors"

	"github.com/dmitrijs2005/storjvault/internal/flagx"
)

// parseEnv overlays the variables the original deployment used
// (STORJ_*, JWT_SECRET, PORT) plus a few server-specific ones.
func parseEnv(config *Config) error {
	var port string
	flagx.EnvString(&port, "PORT")
	if port != "" {
		config.EndpointAddrHTTP = ":" + port
	}

	flagx.EnvString(&config.DatabaseDSN, "DATABASE_DSN")
	flagx.EnvString(&config.VaultsFile, "VAULTS_FILE")
	flagx.EnvString(&config.SecretKey, "JWT_SECRET")
	flagx.EnvString(&config.S3AccessKeyID, "STORJ_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID")
	flagx.EnvString(&config.S3SecretAccessKey, "STORJ_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY")
	flagx.EnvString(&config.S3Bucket, "STORJ_BUCKET")
	flagx.EnvString(&config.S3CompressedBucket, "STORJ_COMPRESSED_BUCKET")
	flagx.EnvString(&config.S3Region, "STORJ_REGION")
	flagx.EnvString(&config.S3BaseEndpoint, "STORJ_ENDPOINT")
	flagx.EnvString(&config.FFmpegPath, "FFMPEG_PATH")
	flagx.EnvString(&config.AllowOrigin, "ALLOW_ORIGIN")
	flagx.EnvString(&config.LogLevel, "LOG_LEVEL")

	return errors.Join(
		flagx.EnvInt64(&config.MaxUploadSize, "MAX_UPLOAD_SIZE"),
		flagx.EnvDuration(&config.TokenValidityDuration, "TOKEN_VALIDITY"),
	)
}
