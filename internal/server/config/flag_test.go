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
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
			"-t", "15", "-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			"-k", "sk-test", "-m", "gpt-4o",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddr:                "127.0.0.1:9090",
				DatabaseDSN:                 "db",
				SecretKey:                   "secret",
				AccessTokenValidityDuration: 15 * time.Minute,
				S3AccessKey:                 "user",
				S3SecretKey:                 "password",
				S3Bucket:                    "bucket",
				S3Region:                    "us-west-1",
				S3BaseEndpoint:              "http://endpoint",
				OpenAIAPIKey:                "sk-test",
				OpenAIModel:                 "gpt-4o",
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

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
