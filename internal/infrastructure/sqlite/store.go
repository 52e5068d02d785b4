// Package sqlite persiste los perfiles en un fichero SQLite (driver puro Go de modernc).
// Pensado para despliegues de una sola instancia.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_profiles (
	session_id          TEXT PRIMARY KEY,
	subscription_type   TEXT NOT NULL DEFAULT 'freemium'
	                    CHECK (subscription_type IN ('freemium', 'premium')),
	available_languages TEXT NOT NULL,
	active_language     TEXT NOT NULL,
	preferred_language  TEXT NOT NULL,
	created_at          TEXT NOT NULL,
	updated_at          TEXT NOT NULL
);`

// Store conexión única a la base SQLite.
type Store struct {
	db *sql.DB
}

// Open abre (o crea) la base en path y aplica el esquema. path puede ser ":memory:".
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// Un solo escritor: serializa las transacciones por sesión y mantiene viva una base :memory:.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrar sqlite: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Ping comprueba la conexión (health check).
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
