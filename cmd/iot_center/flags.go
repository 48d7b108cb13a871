package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kurochkinivan/iot_center/internal/app"
	"github.com/kurochkinivan/iot_center/internal/config"
	"github.com/kurochkinivan/iot_center/internal/repository/postgresql"
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

var version = "dev"

func cmd() *cli.Command {
	return &cli.Command{
		Name:    "iot_center",
		Usage:   "DTU, sensor and MB-RTU configuration service",
		Version: version,
		Flags:   flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, ok := ctx.Value(loggerKey{}).(*slog.Logger)
			if !ok {
				return errors.New("failed to get logger from context")
			}

			cfg := config.Load(cmd)

			return app.New(log, cfg).Run(ctx)
		},
	}
}

func flags() []cli.Flag {
	var config string

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Validator:   validateConfig,
			Usage:       "Load configuration from `FILE`",
			Destination: &config,
		},
		&cli.StringFlag{
			Name:     "pg-host",
			Usage:    "Set PostgreSQL host",
			Value:    "localhost",
			Sources:  cli.NewValueSourceChain(yaml.YAML("postgresql.host", altsrc.NewStringPtrSourcer(&config))),
			Required: true,
		},
		&cli.StringFlag{
			Name:     "pg-port",
			Usage:    "Set PostgreSQL port",
			Value:    "5432",
			Sources:  cli.NewValueSourceChain(yaml.YAML("postgresql.port", altsrc.NewStringPtrSourcer(&config))),
			Required: true,
		},
		&cli.StringFlag{
			Name:     "pg-username",
			Usage:    "Set PostgreSQL username",
			Sources:  cli.NewValueSourceChain(yaml.YAML("postgresql.username", altsrc.NewStringPtrSourcer(&config))),
			Required: true,
		},
		&cli.StringFlag{
			Name:     "pg-password",
			Usage:    "Set PostgreSQL password",
			Sources:  cli.NewValueSourceChain(yaml.YAML("postgresql.password", altsrc.NewStringPtrSourcer(&config))),
			Required: true,
		},
		&cli.StringFlag{
			Name:     "pg-dbname",
			Usage:    "Set PostgreSQL database name",
			Value:    "iot_center",
			Sources:  cli.NewValueSourceChain(yaml.YAML("postgresql.dbname", altsrc.NewStringPtrSourcer(&config))),
			Required: true,
		},
		&cli.Int32Flag{
			Name:    "pg-max-conns",
			Usage:   "Set the PostgreSQL connection pool size",
			Value:   10,
			Sources: cli.NewValueSourceChain(yaml.YAML("postgresql.max_conns", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:    "http-host",
			Usage:   "Set HTTP server host",
			Value:   "localhost",
			Sources: cli.NewValueSourceChain(yaml.YAML("http.host", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:    "http-port",
			Usage:   "Set HTTP server port",
			Value:   "8080",
			Sources: cli.NewValueSourceChain(yaml.YAML("http.port", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.DurationFlag{
			Name:    "http-idle-timeout",
			Usage:   "Set HTTP server idle timeout",
			Value:   1 * time.Minute,
			Sources: cli.NewValueSourceChain(yaml.YAML("http.idle_timeout", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.DurationFlag{
			Name:    "http-read-timeout",
			Usage:   "Set HTTP server read timeout",
			Value:   15 * time.Second,
			Sources: cli.NewValueSourceChain(yaml.YAML("http.read_timeout", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.DurationFlag{
			Name:    "http-write-timeout",
			Usage:   "Set HTTP server write timeout",
			Value:   15 * time.Second,
			Sources: cli.NewValueSourceChain(yaml.YAML("http.write_timeout", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:      "tx-isolation",
			Usage:     "Set the default transaction isolation level",
			Value:     "read committed",
			Sources:   cli.NewValueSourceChain(yaml.YAML("tx.isolation", altsrc.NewStringPtrSourcer(&config))),
			Validator: validateIsolation,
		},
		&cli.DurationFlag{
			Name:    "tx-timeout",
			Usage:   "Set how long a transaction may run",
			Value:   30 * time.Second,
			Sources: cli.NewValueSourceChain(yaml.YAML("tx.timeout", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.IntFlag{
			Name:    "tx-retries",
			Usage:   "Set how many attempts a transaction gets on transient errors",
			Value:   3,
			Sources: cli.NewValueSourceChain(yaml.YAML("tx.retries", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.DurationFlag{
			Name:    "tx-retry-delay",
			Usage:   "Set the base retry delay, multiplied by the attempt number",
			Value:   1 * time.Second,
			Sources: cli.NewValueSourceChain(yaml.YAML("tx.retry_delay", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.IntFlag{
			Name:    "cache-size",
			Usage:   "Set the maximum number of cached read results",
			Value:   1000,
			Sources: cli.NewValueSourceChain(yaml.YAML("cache.size", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Usage:   "Set how long a cached read result stays valid",
			Value:   5 * time.Minute,
			Sources: cli.NewValueSourceChain(yaml.YAML("cache.ttl", altsrc.NewStringPtrSourcer(&config))),
		},
	}
}

func validateIsolation(level string) error {
	if _, err := postgresql.ParseIsoLevel(level); err != nil {
		return err
	}

	return nil
}

func validateConfig(config string) error {
	info, err := os.Stat(config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%q does not exist", config)
		}
		return fmt.Errorf("failed to stat %q: %w", config, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%q is a directory, not a file", config)
	}

	ext := filepath.Ext(info.Name())
	if ext != ".yml" && ext != ".yaml" {
		return fmt.Errorf("invalid extension %q", config)
	}

	return nil
}
