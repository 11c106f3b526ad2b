package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/inkwell-cms/inkwell/pkg/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DriverName maps the configured database type to the registered sql driver.
func DriverName(dbType string) (string, error) {
	switch dbType {
	case "mysql", "mariadb":
		return "mysql", nil
	case "postgres":
		return "postgres", nil
	case "", "sqlite", "sqlite3":
		return "sqlite3", nil
	}
	return "", fmt.Errorf("unsupported database type %q (supported: mysql, mariadb, postgres, sqlite)", dbType)
}

// NewSQLDB opens a connection pool for the configured database. SQLite is
// the zero-configuration default.
func NewSQLDB(cfg *config.Config) (*sqlx.DB, error) {
	dbType := cfg.GetString(config.KeyDBType)
	driver, err := DriverName(dbType)
	if err != nil {
		return nil, err
	}

	user := cfg.GetString(config.KeyDBUser)
	pass := cfg.GetString(config.KeyDBPassword)
	host := cfg.GetString(config.KeyDBHost)
	port := cfg.GetString(config.KeyDBPort)
	name := cfg.GetString(config.KeyDBName)

	var dsn string
	switch driver {
	case "mysql":
		if user == "" || host == "" || port == "" || name == "" {
			return nil, fmt.Errorf("incomplete MySQL connection settings (need User, Host, Port, Name)")
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			user, pass, host, port, name)
	case "postgres":
		if user == "" || host == "" || port == "" || name == "" {
			return nil, fmt.Errorf("incomplete PostgreSQL connection settings (need User, Host, Port, Name)")
		}
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, pass, name)
	case "sqlite3":
		dataDir := "./data"
		if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		if name == "" {
			name = "inkwell.db"
		}
		dsn = fmt.Sprintf("file:%s?_fk=1&cache=shared", filepath.Join(dataDir, name))
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", driver, err)
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	return db, nil
}
