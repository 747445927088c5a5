package config

import (
	"encoding/json"
	"os"
	"time"
)

// jsonConfig is the DTO for the optional JSON config file. Durations are
// plain integer seconds; zero values and absent keys leave the current
// Config value untouched.
type jsonConfig struct {
	EndpointAddr      string `json:"endpoint_addr"`
	DatabaseDSN       string `json:"database_dsn"`
	SessionBackend    string `json:"session_backend"`
	SessionTTLSeconds int    `json:"session_ttl_seconds"`
	RedisAddr         string `json:"redis_addr"`
	RedisPassword     string `json:"redis_password"`
	RedisDB           *int   `json:"redis_db"`
	StorageBackend    string `json:"storage_backend"`
	FolderPath        string `json:"folder_path"`
	S3RootUser        string `json:"s3_root_user"`
	S3RootPassword    string `json:"s3_root_password"`
	S3Bucket          string `json:"s3_bucket"`
	S3Region          string `json:"s3_region"`
	S3BaseEndpoint    string `json:"s3_base_endpoint"`
}

// parseJSON overlays values from the JSON file at path onto cfg.
// An unreadable or malformed file is a startup error and panics, matching
// flag handling.
func parseJSON(cfg *Config, path string) {
	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		cfg.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		cfg.DatabaseDSN = c.DatabaseDSN
	}
	if c.SessionBackend != "" {
		cfg.SessionBackend = c.SessionBackend
	}
	if c.SessionTTLSeconds > 0 {
		cfg.SessionTTL = time.Duration(c.SessionTTLSeconds) * time.Second
	}
	if c.RedisAddr != "" {
		cfg.RedisAddr = c.RedisAddr
	}
	if c.RedisPassword != "" {
		cfg.RedisPassword = c.RedisPassword
	}
	if c.RedisDB != nil {
		cfg.RedisDB = *c.RedisDB
	}
	if c.StorageBackend != "" {
		cfg.StorageBackend = c.StorageBackend
	}
	if c.FolderPath != "" {
		cfg.FolderPath = c.FolderPath
	}
	if c.S3RootUser != "" {
		cfg.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		cfg.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		cfg.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		cfg.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
