package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"dbmap/internal/schema"
	"dbmap/pkg/config"
)

type Connector struct {
	db     *sql.DB
	driver string
}

type SchemaExtractor interface {
	ExtractSchema(cfg config.SchemaConfig) (*schema.Schema, error)
}

func NewConnector(databaseURL string) (*Connector, error) {
	driver, dsn, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connector{
		db:     db,
		driver: driver,
	}, nil
}

func (c *Connector) Close() error {
	return c.db.Close()
}

func (c *Connector) ExtractSchema(cfg config.SchemaConfig) (*schema.Schema, error) {
	var extractor SchemaExtractor

	switch c.driver {
	case "postgres":
		extractor = &PostgreSQLExtractor{db: c.db}
	case "sqlite3":
		extractor = &SQLiteExtractor{db: c.db}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.driver)
	}

	return extractor.ExtractSchema(cfg)
}

func ParseDatabaseURL(databaseURL string) (driver, dsn string, err error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", "", err
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		return "postgres", databaseURL, nil
	case "sqlite", "sqlite3":
		return "sqlite3", strings.TrimPrefix(databaseURL, u.Scheme+"://"), nil
	default:
		return "", "", fmt.Errorf("unsupported database scheme: %s", u.Scheme)
	}
}

// inferCardinality maps a foreign key constraint to a cardinality pair: a
// unique FK column links one row to one row, anything else one to many.
func inferCardinality(unique bool) (from, to schema.Cardinality) {
	if unique {
		return schema.One, schema.One
	}
	return schema.One, schema.Many
}

// markForeign flags the source column of each relationship on its table.
func markForeign(s *schema.Schema) {
	for _, rel := range s.Relationships {
		if table := s.Table(rel.SourceTable); table != nil {
			if col := table.Column(rel.SourceColumn); col != nil {
				col.IsForeign = true
			}
		}
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
