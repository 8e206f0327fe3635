package config

import (
	"encoding/json"
	"os"

	"github.com/lexdraft/lexdraft/internal/flagx"
	"github.com/lexdraft/lexdraft/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "30m" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	S3AccessKey                 string         `json:"s3_access_key"`
	S3SecretKey                 string         `json:"s3_secret_key"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	OpenAIAPIKey                string         `json:"openai_api_key"`
	OpenAIModel                 string         `json:"openai_model"`
	OpenAIBaseURL               string         `json:"openai_base_url"`
	OpenAITemperature           float64        `json:"openai_temperature"`
	OpenAIMaxTokens             int64          `json:"openai_max_tokens"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path is taken from the -c or -config flags;
// if neither is set, no JSON file is loaded. An unreadable or invalid file
// panics: the process cannot run with half-applied configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.OpenAIAPIKey = c.OpenAIAPIKey
	config.OpenAIModel = c.OpenAIModel
	config.OpenAIBaseURL = c.OpenAIBaseURL
	config.OpenAITemperature = c.OpenAITemperature
	config.OpenAIMaxTokens = c.OpenAIMaxTokens
}
