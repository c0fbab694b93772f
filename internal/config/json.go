package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/seedkeeper/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value so a partial file only
// overrides what it names.
type JsonConfig struct {
	StoreDriver        *string `json:"store_driver"`
	DatabaseDSN        *string `json:"database_dsn"`
	LogLevel           *string `json:"log_level"`
	ChallengeWords     *int    `json:"challenge_words"`
	MinPasswordScore   *int    `json:"min_password_score"`
	ReshuffleOnFailure *bool   `json:"reshuffle_on_failure"`
	S3Bucket           *string `json:"s3_bucket"`
	S3Region           *string `json:"s3_region"`
	S3BaseEndpoint     *string `json:"s3_base_endpoint"`
	S3AccessKey        *string `json:"s3_access_key"`
	S3SecretKey        *string `json:"s3_secret_key"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing. Read and unmarshal
// errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.StoreDriver, jc.StoreDriver)
	setIf(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.ChallengeWords, jc.ChallengeWords)
	setIf(&cfg.MinPasswordScore, jc.MinPasswordScore)
	setIf(&cfg.ReshuffleOnFailure, jc.ReshuffleOnFailure)
	setIf(&cfg.S3Bucket, jc.S3Bucket)
	setIf(&cfg.S3Region, jc.S3Region)
	setIf(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setIf(&cfg.S3AccessKey, jc.S3AccessKey)
	setIf(&cfg.S3SecretKey, jc.S3SecretKey)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
