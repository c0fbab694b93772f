package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/seedkeeper/internal/flagx"
)

var flagSpec = flagx.Spec{
	Valued: []string{"-s", "-d", "-l", "-w", "-m", "-b", "-g", "-e", "-u", "-p"},
	Bool:   []string{"-r"},
}

// parseFlags populates Config fields from command-line flags. Only the flags
// listed in flagSpec are considered, so other components may share os.Args.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], flagSpec)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.StringVar(&cfg.StoreDriver, "s", cfg.StoreDriver, "secret store driver (memory, sqlite, postgres)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "store DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.IntVar(&cfg.ChallengeWords, "w", cfg.ChallengeWords, "words asked during backup confirmation")
	fs.IntVar(&cfg.MinPasswordScore, "m", cfg.MinPasswordScore, "minimum password strength score (0-4)")
	fs.BoolVar(&cfg.ReshuffleOnFailure, "r", cfg.ReshuffleOnFailure, "reshuffle confirmation positions after a wrong answer")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 backup bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.S3AccessKey, "u", cfg.S3AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3SecretKey, "p", cfg.S3SecretKey, "S3 secret key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
