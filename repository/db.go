package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Placeholders are numbered ($1, $2, ...) and must appear in ascending
// order of first use: lib/pq and go-sqlite3 both accept that form.
const schema = `
CREATE TABLE IF NOT EXISTS fishes (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	price          NUMERIC(12,2) NOT NULL,
	price_unit     TEXT NOT NULL,
	original_price NUMERIC(12,2),
	discount       NUMERIC(5,2),
	discount_price NUMERIC(12,2),
	availability   TEXT NOT NULL,
	category       TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	image          TEXT NOT NULL DEFAULT '',
	care           TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS fishes_category_idx ON fishes (category);
CREATE TABLE IF NOT EXISTS orders (
	id               TEXT PRIMARY KEY,
	customer_name    TEXT NOT NULL,
	customer_phone   TEXT NOT NULL,
	customer_address TEXT NOT NULL,
	subtotal         NUMERIC(12,2) NOT NULL,
	delivery_charge  NUMERIC(12,2) NOT NULL,
	total            NUMERIC(12,2) NOT NULL,
	status           TEXT NOT NULL,
	created_at       TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS order_items (
	order_id   TEXT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	fish_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	price_unit TEXT NOT NULL,
	quantity   INTEGER NOT NULL,
	unit_price NUMERIC(12,2) NOT NULL,
	line_total NUMERIC(12,2) NOT NULL,
	PRIMARY KEY (order_id, position)
);
`

// Open connects to driver ("postgres" or "sqlite3") and pings it.
func Open(ctx context.Context, driver, url string) (*sql.DB, error) {
	if url == "" {
		return nil, errors.New("database url must be set")
	}
	db, err := sql.Open(driver, url)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite3" {
		// one connection, otherwise every pooled conn to :memory: is its own database
		db.SetMaxOpenConns(1)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the tables when they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
