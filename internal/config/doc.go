// Package config loads runtime configuration for seedkeeper.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string   secret store driver: memory, sqlite or postgres
//	-d string   store DSN (sqlite file path or postgres URL)
//	-l string   log level: debug, info, warn, error
//	-w int      number of words asked during backup confirmation (>= 3)
//	-m int      minimum zxcvbn score for new passwords, 0 disables the gate
//	-r          pick new confirmation positions after a wrong answer
//	-b string   S3 bucket for encrypted backups, empty disables backups
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-u string   S3 access key
//	-p string   S3 secret key
//
// # JSON schema
//
//	{
//	  "store_driver": "sqlite",
//	  "database_dsn": "seedkeeper.db",
//	  "log_level": "info",
//	  "challenge_words": 3,
//	  "min_password_score": 0,
//	  "reshuffle_on_failure": false,
//	  "s3_bucket": "wallet-backups",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000/",
//	  "s3_access_key": "admin",
//	  "s3_secret_key": "secretpassword"
//	}
//
// Cryptographic cost parameters are deliberately absent: they are fixed in
// package cryptox and recorded in every stored credential.
package config
