package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

type Configs struct {
	Env string `toml:"env"`

	Database     DatabaseConfigs     `toml:"database"`
	ApiServer    ServerConfigs       `toml:"api_server"`
	Auth         AuthConfigs         `toml:"auth"`
	Redis        RedisConfigs        `toml:"redis"`
	Kafka        KafkaConfigs        `toml:"kafka"`
	Reward       RewardConfigs       `toml:"reward"`
	Notification NotificationConfigs `toml:"notification"`
	Log          LogConfigs          `toml:"log"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	LogLevel string `toml:"log_level"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host         string   `toml:"host"`
	Port         string   `toml:"port"`
	AllowOrigins []string `toml:"allow_origins"`
	DefaultLimit int      `toml:"default_limit"`
	MaxLimit     int      `toml:"max_limit"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret string       `toml:"token_secret"`
	AccessToken TokenConfigs `toml:"access_token"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr     string `toml:"addr"`
	ClientID string `toml:"client_id"`
}

type RewardConfigs struct {
	// SpendPerCard is the cumulative purchase amount which earns one card.
	SpendPerCard decimal.Decimal `toml:"spend_per_card"`

	// ExpiryWindow starts when a card is scratched.
	ExpiryWindow time.Duration `toml:"expiry_window"`

	Prizes []PrizeConfigs `toml:"prizes"`
}

type PrizeConfigs struct {
	Kind   string          `toml:"kind"`
	Value  decimal.Decimal `toml:"value"`
	Weight float64         `toml:"weight"`
}

type NotificationConfigs struct {
	// DedupeTTL is how long a delivered event id is remembered in redis.
	DedupeTTL time.Duration `toml:"dedupe_ttl"`
	SMS       SMSConfigs    `toml:"sms"`
}

type SMSConfigs struct {
	BaseURL    string        `toml:"base_url"`
	AccountSID string        `toml:"account_sid"`
	AuthToken  string        `toml:"auth_token"`
	From       string        `toml:"from"`
	Timeout    time.Duration `toml:"timeout"`
}

type LogConfigs struct {
	Level      string `toml:"level"`
	Pretty     bool   `toml:"pretty"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Default returns the configurations used when no file is given. The prize
// table gives 40% chance to win a discount.
func Default() Configs {
	return Configs{
		Env: "local",
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "loyalty",
			User:     "loyalty",
			Password: "loyalty",
			LogLevel: "silent",
		},
		ApiServer: ServerConfigs{
			Port:         "8080",
			AllowOrigins: []string{"http://localhost:3000"},
			DefaultLimit: 20,
			MaxLimit:     100,
		},
		Auth: AuthConfigs{
			TokenSecret: "secret",
			AccessToken: TokenConfigs{Name: "access_token", Expiration: 24 * time.Hour},
		},
		Redis: RedisConfigs{Addr: "localhost:6379"},
		Kafka: KafkaConfigs{Addr: "localhost:9092", ClientID: "loyalty"},
		Reward: RewardConfigs{
			SpendPerCard: decimal.NewFromInt(150),
			ExpiryWindow: time.Hour,
			Prizes: []PrizeConfigs{
				{Kind: "percentage_discount", Value: decimal.NewFromInt(30), Weight: 0.10},
				{Kind: "percentage_discount", Value: decimal.NewFromInt(20), Weight: 0.10},
				{Kind: "amount_discount", Value: decimal.NewFromInt(50), Weight: 0.10},
				{Kind: "amount_discount", Value: decimal.NewFromInt(30), Weight: 0.10},
				{Kind: "better_luck", Value: decimal.Zero, Weight: 0.60},
			},
		},
		Notification: NotificationConfigs{
			DedupeTTL: 24 * time.Hour,
			SMS: SMSConfigs{
				BaseURL: "https://api.twilio.com",
				Timeout: 5 * time.Second,
			},
		},
		Log: LogConfigs{Level: "info", MaxSizeMB: 100, MaxBackups: 5, MaxAgeDays: 30},
	}
}

// Load reads the toml file on top of the default configurations, then applies
// the environment overrides. An empty path skips the file.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}

func (c *Configs) applyEnv() {
	setString(&c.Env, "ENV")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.Database, "DB_NAME")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.ApiServer.Port, "API_PORT")
	setString(&c.Auth.TokenSecret, "TOKEN_SECRET")
	setString(&c.Redis.Addr, "REDIS_ADDRESS")
	setString(&c.Kafka.Addr, "KAFKA_ADDRESS")
	setString(&c.Notification.SMS.AccountSID, "SMS_ACCOUNT_SID")
	setString(&c.Notification.SMS.AuthToken, "SMS_AUTH_TOKEN")
	setString(&c.Notification.SMS.From, "SMS_FROM")
	setString(&c.Log.Level, "LOG_LEVEL")
}

func setString(field *string, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*field = v
	}
}

func (c *Configs) Validate() error {
	if !c.Reward.SpendPerCard.IsPositive() {
		return errors.New("reward.spend_per_card must be positive")
	}

	if c.Reward.ExpiryWindow <= 0 {
		return errors.New("reward.expiry_window must be positive")
	}

	if len(c.Reward.Prizes) == 0 {
		return errors.New("reward.prizes must not be empty")
	}

	if c.Auth.TokenSecret == "" {
		return errors.New("auth.token_secret is required")
	}

	return nil
}
