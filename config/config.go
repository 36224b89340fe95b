package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database    DatabaseConfigs
	ApiServer   ServerConfigs
	Auth        AuthConfigs
	Redis       RedisConfigs
	RewardStack RewardStackConfigs
	Email       EmailConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
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
	Host string
	Port string

	MaxLimit     int
	DefaultLimit int
}

type AuthConfigs struct {
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Secret     string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

// RewardStackConfigs holds the settings of the external rewards provider.
// Timeout bounds every provider call; an attempt exceeding it is treated as a
// failure. MaxRetry caps how many times a failed issuance can be reset to
// pending before it requires manual intervention.
type RewardStackConfigs struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	MaxRetry int
}

type EmailConfigs struct {
	Sender string
}
