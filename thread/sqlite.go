package thread

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/becomeliminal/concierge/core"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS thread_messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL,
	role TEXT NOT NULL,
	blocks TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_thread_messages_email ON thread_messages(email);
`

// SQLiteStore persists threads in a SQLite database so conversations
// survive restarts. One row per message; content blocks are stored as JSON.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if necessary initializes) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) History(ctx context.Context, email string) ([]core.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, blocks FROM thread_messages WHERE email = ? ORDER BY id`, email)
	if err != nil {
		return nil, fmt.Errorf("query thread: %w", err)
	}
	defer rows.Close()

	var msgs []core.Message
	for rows.Next() {
		var role, blocksJSON string
		if err := rows.Scan(&role, &blocksJSON); err != nil {
			return nil, fmt.Errorf("scan thread row: %w", err)
		}

		var blocks []core.ContentBlock
		if err := json.Unmarshal([]byte(blocksJSON), &blocks); err != nil {
			return nil, fmt.Errorf("decode message blocks: %w", err)
		}
		msgs = append(msgs, core.Message{Role: role, Blocks: blocks})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate thread rows: %w", err)
	}
	return msgs, nil
}

func (s *SQLiteStore) Append(ctx context.Context, email string, msgs ...core.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO thread_messages (email, role, blocks) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare append: %w", err)
	}
	defer stmt.Close()

	for _, msg := range msgs {
		blocksJSON, err := json.Marshal(msg.Blocks)
		if err != nil {
			return fmt.Errorf("encode message blocks: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, email, msg.Role, string(blocksJSON)); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
