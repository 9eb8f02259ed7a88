package storage

import "time"

// Config defines the Postgres connection settings for the registry stores.
type Config struct {
	Connection        Connection
	ConnectionDetails ConnectionDetails
}

type Connection struct {
	Host     string `yaml:"host" envconfig:"REGISTRY_DB_HOST"`
	Port     string `yaml:"port" envconfig:"REGISTRY_DB_PORT"`
	User     string `yaml:"user" envconfig:"REGISTRY_DB_USER"`
	Password string `yaml:"password" envconfig:"REGISTRY_DB_PASSWORD"`
	DbName   string `yaml:"db_name" envconfig:"REGISTRY_DB_NAME"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"REGISTRY_DB_SSL_MODE"`
}

type ConnectionDetails struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

const (
	defaultMaxOpenConns    = 50
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 1 * time.Minute
)
