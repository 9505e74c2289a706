package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/trippix/attractions/internal/flagx"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It is an intermediate DTO used only for reading JSON
// configuration files; after unmarshalling, set fields are copied into the
// runtime Config struct. The presign TTL is expressed in minutes so config
// files stay free of duration-string parsing.
type JsonConfig struct {
	EndpointAddr      string `json:"endpoint_addr"`
	DatabaseDSN       string `json:"database_dsn"`
	S3AccessKey       string `json:"s3_access_key"`
	S3SecretKey       string `json:"s3_secret_key"`
	S3Bucket          string `json:"s3_bucket"`
	S3Region          string `json:"s3_region"`
	S3BaseEndpoint    string `json:"s3_base_endpoint"`
	PublicBaseURL     string `json:"public_base_url"`
	TransformEndpoint string `json:"transform_endpoint"`
	PresignTTLMinutes int    `json:"presign_ttl_minutes"`
	MaxUploadSizeMB   int    `json:"max_upload_size_mb"`
	MaxFilesPerBatch  int    `json:"max_files_per_batch"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. Only fields present in the file
// override the defaults already in place. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()

	// nothing to load
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

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.S3AccessKey != "" {
		config.S3AccessKey = c.S3AccessKey
	}
	if c.S3SecretKey != "" {
		config.S3SecretKey = c.S3SecretKey
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.PublicBaseURL != "" {
		config.PublicBaseURL = c.PublicBaseURL
	}
	if c.TransformEndpoint != "" {
		config.TransformEndpoint = c.TransformEndpoint
	}
	if c.PresignTTLMinutes > 0 {
		config.PresignTTL = time.Duration(c.PresignTTLMinutes) * time.Minute
	}
	if c.MaxUploadSizeMB > 0 {
		config.MaxUploadSizeMB = c.MaxUploadSizeMB
	}
	if c.MaxFilesPerBatch > 0 {
		config.MaxFilesPerBatch = c.MaxFilesPerBatch
	}
}
