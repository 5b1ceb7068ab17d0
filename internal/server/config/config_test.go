package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":3000", c.EndpointAddrHTTP)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Equal(t, "./users.json", c.VaultsFile)
	assert.Equal(t, 30*24*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, "file-storage", c.S3Bucket)
	assert.Equal(t, "compressed-files", c.S3CompressedBucket)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "https://gateway.storjshare.io", c.S3BaseEndpoint)
	assert.True(t, c.S3ForcePathStyle)
	assert.Equal(t, int64(2<<30), c.MaxUploadSize)
	assert.Equal(t, 8, c.DeleteConcurrency)
	assert.Equal(t, 10*time.Minute, c.SignalingTTL)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	for _, k := range []string{"PORT", "JWT_SECRET", "STORJ_BUCKET", "MAX_UPLOAD_SIZE", "TOKEN_VALIDITY"} {
		t.Setenv(k, "")
	}

	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":3000", c.EndpointAddrHTTP)
	assert.Equal(t, "your_super_secret_jwt_key_please_change_this", c.SecretKey)
	assert.Equal(t, 30*24*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, "file-storage", c.S3Bucket)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("STORJ_BUCKET", "env-bucket")
	t.Setenv("STORJ_ACCESS_KEY_ID", "ak")
	t.Setenv("MAX_UPLOAD_SIZE", "1024")
	t.Setenv("TOKEN_VALIDITY", "")

	c := LoadConfig()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, "from-env", c.SecretKey)
	assert.Equal(t, "env-bucket", c.S3Bucket)
	assert.Equal(t, "ak", c.S3AccessKeyID)
	assert.Equal(t, int64(1024), c.MaxUploadSize)
}

func TestLoadConfig_BadEnvPanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("MAX_UPLOAD_SIZE", "lots")

	require.Panics(t, func() { LoadConfig() })
}
