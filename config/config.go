package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string `toml:"env"`

	LogLevel  string          `toml:"log_level"`
	Database  DatabaseConfigs `toml:"database"`
	ApiServer ServerConfigs   `toml:"api_server"`
	Auth      AuthConfigs     `toml:"auth"`
	Redis     RedisConfigs    `toml:"redis"`
	Points    PointsConfigs   `toml:"points"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`

	MaxLimit     int `toml:"max_limit"`
	DefaultLimit int `toml:"default_limit"`
}

type AuthConfigs struct {
	TokenSecret string       `toml:"token_secret"`
	AccessToken TokenConfigs `toml:"access_token"`
}

// Duration decodes TOML strings like "24h".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	*d = Duration(parsed)
	return nil
}

type TokenConfigs struct {
	Name       string   `toml:"name"`
	Expiration Duration `toml:"expiration"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

// StreakTierConfigs describes one streak bonus tier. The bonus fires only
// when the streak count lands exactly on Days.
type StreakTierConfigs struct {
	Days  int    `toml:"days"`
	Bonus int64  `toml:"bonus"`
	Label string `toml:"label"`
}

type PointsConfigs struct {
	DailyCheckin int64               `toml:"daily_checkin"`
	StreakTiers  []StreakTierConfigs `toml:"streak_tiers"`

	// Timezone names the location used for calendar-day comparisons.
	// Empty means UTC.
	Timezone string `toml:"timezone"`
}

func (p *PointsConfigs) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}
