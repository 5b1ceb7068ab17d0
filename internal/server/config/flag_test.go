package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-f", "vaults.json", "-s", "secret",
			"-t", "2", "-u", "user", "-p", "password", "-b", "bucket", "-k", "small",
			"-g", "us-west-1", "-e", "http://endpoint", "-m", "100", "-l", "debug", "-x", "/usr/bin/ffmpeg",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrHTTP:      "127.0.0.1:9090",
				DatabaseDSN:           "db",
				VaultsFile:            "vaults.json",
				SecretKey:             "secret",
				TokenValidityDuration: 2 * time.Hour,
				S3AccessKeyID:         "user",
				S3SecretAccessKey:     "password",
				S3Bucket:              "bucket",
				S3CompressedBucket:    "small",
				S3Region:              "us-west-1",
				S3BaseEndpoint:        "http://endpoint",
				MaxUploadSize:         100,
				LogLevel:              "debug",
				FFmpegPath:            "/usr/bin/ffmpeg",
			}},
		{name: "unknown flags are ignored", args: []string{"cmd", "-config", "x.json", "-a", ":1"},
			expected: &Config{EndpointAddrHTTP: ":1"}},
		{name: "bad number panics", args: []string{"cmd", "-m", "many"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
