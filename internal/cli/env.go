package cli

import (
	"os"

	"mintme-bridge/internal/config"
	"mintme-bridge/internal/mintme"
)

// ClientFromEnv loads ENV_FILE (default .env), reads the configuration and
// builds the exchange client.
func ClientFromEnv() (*mintme.Client, config.Config, error) {
	if err := config.LoadEnvFile(os.Getenv("ENV_FILE")); err != nil {
		return nil, config.Config{}, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	client, err := mintme.NewClient(AdapterConfig(cfg))
	if err != nil {
		return nil, cfg, err
	}
	return client, cfg, nil
}

func AdapterConfig(cfg config.Config) mintme.Config {
	return mintme.Config{
		PublicURL:   cfg.PublicURL,
		PrivateURL:  cfg.PrivateURL,
		PublicKey:   cfg.PublicKey,
		PrivateKey:  cfg.PrivateKey,
		MinInterval: cfg.MinInterval,
		Timeout:     cfg.Timeout,
	}
}
