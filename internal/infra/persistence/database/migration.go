package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Slug uniqueness is enforced at the service layer among live rows only, so
// slugs carry a plain index here: a soft-deleted row may keep a slug that a
// new row reuses.
var tables = []struct {
	name    string
	columns string
	indexes []string
}{
	{
		name: "users",
		columns: `
			{{id}},
			created_at {{ts}} NOT NULL,
			updated_at {{ts}} NOT NULL,
			deleted_at {{ts}} NULL,
			username VARCHAR(120) NOT NULL,
			nickname VARCHAR(120) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL DEFAULT '',
			password_hash VARCHAR(255) NOT NULL,
			avatar_url VARCHAR(500) NOT NULL DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'editor',
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			last_login_at {{ts}} NULL`,
		indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_users_username ON users (username)",
			"CREATE INDEX IF NOT EXISTS idx_users_status ON users (status)",
		},
	},
	{
		name: "categories",
		columns: `
			{{id}},
			created_at {{ts}} NOT NULL,
			updated_at {{ts}} NOT NULL,
			deleted_at {{ts}} NULL,
			name VARCHAR(120) NOT NULL,
			slug VARCHAR(120) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'enabled',
			sort INTEGER NOT NULL DEFAULT 0,
			article_count INTEGER NOT NULL DEFAULT 0`,
		indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_categories_slug ON categories (slug)",
			"CREATE INDEX IF NOT EXISTS idx_categories_status ON categories (status)",
		},
	},
	{
		name: "tags",
		columns: `
			{{id}},
			created_at {{ts}} NOT NULL,
			updated_at {{ts}} NOT NULL,
			deleted_at {{ts}} NULL,
			name VARCHAR(120) NOT NULL,
			slug VARCHAR(120) NOT NULL,
			color VARCHAR(20) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'enabled',
			article_count INTEGER NOT NULL DEFAULT 0`,
		indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_tags_slug ON tags (slug)",
		},
	},
	{
		name: "articles",
		columns: `
			{{id}},
			created_at {{ts}} NOT NULL,
			updated_at {{ts}} NOT NULL,
			deleted_at {{ts}} NULL,
			title VARCHAR(255) NOT NULL,
			slug VARCHAR(120) NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			content_md TEXT NOT NULL DEFAULT '',
			content_html TEXT NOT NULL DEFAULT '',
			cover_url VARCHAR(500) NOT NULL DEFAULT '',
			category_id INTEGER NOT NULL DEFAULT 0,
			category_name VARCHAR(120) NOT NULL DEFAULT '',
			author_id INTEGER NOT NULL DEFAULT 0,
			author_name VARCHAR(120) NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			status VARCHAR(20) NOT NULL DEFAULT 'draft',
			is_top BOOLEAN NOT NULL DEFAULT FALSE,
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			view_count INTEGER NOT NULL DEFAULT 0,
			word_count INTEGER NOT NULL DEFAULT 0,
			scheduled_at {{ts}} NULL,
			published_at {{ts}} NULL`,
		indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_articles_slug ON articles (slug)",
			"CREATE INDEX IF NOT EXISTS idx_articles_status ON articles (status)",
			"CREATE INDEX IF NOT EXISTS idx_articles_category ON articles (category_id)",
		},
	},
	{
		name: "tech_stacks",
		columns: `
			{{id}},
			created_at {{ts}} NOT NULL,
			updated_at {{ts}} NOT NULL,
			deleted_at {{ts}} NULL,
			name VARCHAR(120) NOT NULL,
			slug VARCHAR(120) NOT NULL,
			icon_url VARCHAR(500) NOT NULL DEFAULT '',
			grp VARCHAR(60) NOT NULL DEFAULT '',
			proficiency INTEGER NOT NULL DEFAULT 3,
			years INTEGER NOT NULL DEFAULT 0,
			sort INTEGER NOT NULL DEFAULT 0,
			highlights TEXT NOT NULL DEFAULT '[]',
			status VARCHAR(20) NOT NULL DEFAULT 'enabled'`,
		indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_tech_stacks_slug ON tech_stacks (slug)",
		},
	},
	{
		name: "thoughts",
		columns: `
			{{id}},
			created_at {{ts}} NOT NULL,
			updated_at {{ts}} NOT NULL,
			deleted_at {{ts}} NULL,
			slug VARCHAR(120) NOT NULL,
			content TEXT NOT NULL,
			images TEXT NOT NULL DEFAULT '[]',
			mood VARCHAR(60) NOT NULL DEFAULT '',
			location VARCHAR(120) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'public'`,
		indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_thoughts_slug ON thoughts (slug)",
			"CREATE INDEX IF NOT EXISTS idx_thoughts_status ON thoughts (status)",
		},
	},
	{
		name: "travels",
		columns: `
			{{id}},
			created_at {{ts}} NOT NULL,
			updated_at {{ts}} NOT NULL,
			deleted_at {{ts}} NULL,
			title VARCHAR(255) NOT NULL,
			slug VARCHAR(120) NOT NULL,
			country VARCHAR(120) NOT NULL DEFAULT '',
			city VARCHAR(120) NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			start_date {{ts}} NULL,
			end_date {{ts}} NULL,
			images TEXT NOT NULL DEFAULT '[]',
			highlights TEXT NOT NULL DEFAULT '[]',
			status VARCHAR(20) NOT NULL DEFAULT 'public'`,
		indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_travels_slug ON travels (slug)",
		},
	},
	{
		name: "projects",
		columns: `
			{{id}},
			created_at {{ts}} NOT NULL,
			updated_at {{ts}} NOT NULL,
			deleted_at {{ts}} NULL,
			name VARCHAR(120) NOT NULL,
			slug VARCHAR(120) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			repo_url VARCHAR(500) NOT NULL DEFAULT '',
			demo_url VARCHAR(500) NOT NULL DEFAULT '',
			cover_url VARCHAR(500) NOT NULL DEFAULT '',
			tech_stack TEXT NOT NULL DEFAULT '[]',
			highlights TEXT NOT NULL DEFAULT '[]',
			featured BOOLEAN NOT NULL DEFAULT FALSE,
			sort INTEGER NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'draft'`,
		indexes: []string{
			"CREATE INDEX IF NOT EXISTS idx_projects_slug ON projects (slug)",
		},
	},
}

// Migrate creates the schema for the given driver. Statements are idempotent
// so startup can run this unconditionally.
func Migrate(db *sqlx.DB, driver string) error {
	idCol, tsType := dialect(driver)

	for _, t := range tables {
		columns := strings.ReplaceAll(t.columns, "{{id}}", idCol)
		columns = strings.ReplaceAll(columns, "{{ts}}", tsType)
		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.name, columns)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		for _, idx := range t.indexes {
			// MySQL has no IF NOT EXISTS for indexes; strip it and tolerate
			// the duplicate error on re-run.
			if driver == "mysql" {
				idx = strings.Replace(idx, "IF NOT EXISTS ", "", 1)
			}
			if _, err := db.Exec(idx); err != nil {
				if driver == "mysql" && strings.Contains(err.Error(), "Duplicate") {
					continue
				}
				return fmt.Errorf("create index on %s: %w", t.name, err)
			}
		}
	}
	return nil
}

func dialect(driver string) (idColumn, timestampType string) {
	switch driver {
	case "mysql":
		return "id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY", "DATETIME"
	case "postgres":
		return "id BIGSERIAL PRIMARY KEY", "TIMESTAMPTZ"
	default:
		return "id INTEGER PRIMARY KEY AUTOINCREMENT", "TIMESTAMP"
	}
}
