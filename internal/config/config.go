package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

type Config struct {
	PostgreSQL
	HTTP
	Tx
	Cache
}

type PostgreSQL struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
	MaxConns int32
}

type HTTP struct {
	Host         string
	Port         string
	IdleTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Tx holds the defaults every orchestrated transaction runs with.
type Tx struct {
	Isolation  string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

type Cache struct {
	Size int
	TTL  time.Duration
}

func Load(cmd *cli.Command) *Config {
	return &Config{
		PostgreSQL: PostgreSQL{
			Host:     cmd.String("pg-host"),
			Port:     cmd.String("pg-port"),
			Username: cmd.String("pg-username"),
			Password: cmd.String("pg-password"),
			DBName:   cmd.String("pg-dbname"),
			MaxConns: cmd.Int32("pg-max-conns"),
		},
		HTTP: HTTP{
			Host:         cmd.String("http-host"),
			Port:         cmd.String("http-port"),
			IdleTimeout:  cmd.Duration("http-idle-timeout"),
			ReadTimeout:  cmd.Duration("http-read-timeout"),
			WriteTimeout: cmd.Duration("http-write-timeout"),
		},
		Tx: Tx{
			Isolation:  cmd.String("tx-isolation"),
			Timeout:    cmd.Duration("tx-timeout"),
			Retries:    cmd.Int("tx-retries"),
			RetryDelay: cmd.Duration("tx-retry-delay"),
		},
		Cache: Cache{
			Size: cmd.Int("cache-size"),
			TTL:  cmd.Duration("cache-ttl"),
		},
	}
}
