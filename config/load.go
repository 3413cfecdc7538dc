package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from a TOML file, then applies environment
// overrides for the values that differ per deployment. A missing path loads
// defaults only.
func Load(path string) (Configs, error) {
	cfg := defaultConfigs()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func defaultConfigs() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		ApiServer: ServerConfigs{
			Host:         "0.0.0.0",
			Port:         "8080",
			MaxLimit:     50,
			DefaultLimit: 20,
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: Duration(24 * time.Hour),
			},
		},
		Points: PointsConfigs{
			DailyCheckin: 10,
			StreakTiers: []StreakTierConfigs{
				{Days: 7, Bonus: 50, Label: "7 Day Streak!"},
				{Days: 30, Bonus: 200, Label: "30 Day Streak!"},
				{Days: 100, Bonus: 1000, Label: "100 Day Streak!"},
			},
		},
	}
}

func applyEnv(cfg *Configs) {
	if v := os.Getenv("ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.ApiServer.Port = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Database = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		cfg.Auth.TokenSecret = v
	}
}
