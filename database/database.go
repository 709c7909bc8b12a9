// Package database connects todo record repositories to their backends.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/todovault/todovault"
	"github.com/todovault/todovault/database/dynamo"
	"github.com/todovault/todovault/database/postgres"
	"github.com/todovault/todovault/database/sqlite"

	_ "modernc.org/sqlite" // SQLite driver
)

// Config holds the configuration for connecting to a record store backend.
type Config struct {
	// Type specifies the backend type: "sqlite", "postgres", or "dynamodb"
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres dynamodb"`
	// DSN is the data source name (connection string); unused for dynamodb
	DSN string `mapstructure:"dsn"`
	// Table is the name of the todos table
	Table string `mapstructure:"table" validate:"required"`
	// Region is the AWS region for the dynamodb backend
	Region string `mapstructure:"region"`
	// Endpoint overrides the dynamodb endpoint (local development)
	Endpoint string `mapstructure:"endpoint"`
}

// Connect establishes a connection to the configured backend, runs migrations,
// validates the schema, and returns a TodoRepo. The returned cleanup function
// should be called to close the connection.
//
// The dynamodb backend performs no migration or validation; its table and
// index are provisioned externally.
func Connect(ctx context.Context, cfg Config) (todovault.TodoRepo, func(), error) {
	tables := todovault.Tables{Todos: cfg.Table}

	switch cfg.Type {
	case "sqlite":
		return connectSQLite(ctx, cfg.DSN, tables)
	case "postgres":
		return connectPostgres(ctx, cfg.DSN, tables)
	case "dynamodb":
		return connectDynamo(ctx, cfg)
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

func connectSQLite(ctx context.Context, dsn string, tables todovault.Tables) (todovault.TodoRepo, func(), error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err = sqlite.Migrate(ctx, db, tables); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	if err = sqlite.ValidateSchema(ctx, db, tables); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("validate sqlite schema: %w", err)
	}

	repo, err := sqlite.NewRepo(db, tables)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("create sqlite repo: %w", err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return repo, cleanup, nil
}

func connectPostgres(ctx context.Context, dsn string, tables todovault.Tables) (todovault.TodoRepo, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err = postgres.Migrate(ctx, pool, tables); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}

	if err = postgres.ValidateSchema(ctx, pool, tables); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("validate postgres schema: %w", err)
	}

	repo, err := postgres.NewRepo(pool, tables)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("create postgres repo: %w", err)
	}

	return repo, pool.Close, nil
}

func connectDynamo(ctx context.Context, cfg Config) (todovault.TodoRepo, func(), error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	repo, err := dynamo.NewRepo(client, cfg.Table)
	if err != nil {
		return nil, nil, fmt.Errorf("create dynamodb repo: %w", err)
	}

	return repo, func() {}, nil
}
