package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	vone "github.com/HardM1nd/V-One-sub000"
)

// cliConfig is the environment-driven CLI configuration.
type cliConfig struct {
	APIBaseURL      string `env:"VONE_API_URL" env-default:"https://api.v-one.app"`
	CredentialsFile string `env:"VONE_CREDENTIALS_FILE" env-default:""`
	RedisAddr       string `env:"VONE_REDIS_ADDR" env-default:""`
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "vone",
	Short:         "Command-line client for the V-One flight-log API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "emit session events as JSON lines on stderr")
}

func loadConfig() (cliConfig, error) {
	var cfg cliConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cliConfig{}, fmt.Errorf("read environment: %w", err)
	}
	if cfg.CredentialsFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cliConfig{}, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.CredentialsFile = filepath.Join(home, ".vone", "credentials.json")
	}
	return cfg, nil
}

// newClient builds a Client from the environment. Credentials persist in a
// file by default, or in Redis when VONE_REDIS_ADDR is set.
func newClient() (*vone.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	builder := vone.New().
		WithBaseURL(cfg.APIBaseURL).
		WithSessionExpiredHandler(func() {
			fmt.Fprintln(os.Stderr, "session expired: run `vone login` to sign in again")
		})

	if cfg.RedisAddr != "" {
		builder = builder.WithRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		builder = builder.WithCredentialsFile(cfg.CredentialsFile)
	}
	if verbose {
		builder = builder.WithEventSink(vone.NewJSONWriterSink(os.Stderr))
	}

	return builder.Build()
}
