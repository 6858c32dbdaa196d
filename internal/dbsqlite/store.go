package dbsqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"messageapi/internal/message"
)

// messageRow maps the messages table. Timestamps are Unix milliseconds.
type messageRow struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Body        string `db:"body"`
	CreatedDate int64  `db:"created_date"`
	UpdatedDate int64  `db:"updated_date"`
}

func toRow(m *message.Message) messageRow {
	return messageRow{
		ID:          m.ID.String(),
		Title:       m.Title,
		Body:        m.Body,
		CreatedDate: m.CreatedDate.UnixMilli(),
		UpdatedDate: m.UpdatedDate.UnixMilli(),
	}
}

func (r messageRow) toMessage() (*message.Message, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid message id %q: %w", r.ID, err)
	}
	return &message.Message{
		ID:          id,
		Title:       r.Title,
		Body:        r.Body,
		CreatedDate: time.UnixMilli(r.CreatedDate).UTC(),
		UpdatedDate: time.UnixMilli(r.UpdatedDate).UTC(),
	}, nil
}

// Store is a message.Store backed by sqlx.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewStore(db *sqlx.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With("component", "store", "driver", "sqlite"),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Insert(ctx context.Context, m *message.Message) error {
	const query = `
		INSERT INTO messages (id, title, body, created_date, updated_date)
		VALUES (:id, :title, :body, :created_date, :updated_date)`

	if _, err := s.db.NamedExecContext(ctx, query, toRow(m)); err != nil {
		if isPrimaryKeyViolation(err) {
			return &message.ConflictError{ID: m.ID}
		}
		s.logger.ErrorContext(ctx, "Failed to insert message", "id", m.ID, "error", err)
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// Update writes title, body and updated date. The created date is never rewritten.
func (s *Store) Update(ctx context.Context, m *message.Message) error {
	const query = `UPDATE messages SET title = ?, body = ?, updated_date = ? WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query, m.Title, m.Body, m.UpdatedDate.UnixMilli(), m.ID.String())
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", message.ErrNotFound, m.ID)
	}
	return nil
}

func (s *Store) List(ctx context.Context, f message.Filter, p message.Page) ([]*message.Message, int64, error) {
	where, args := whereClause(f)

	var total int64
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM messages"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}
	if total == 0 {
		return []*message.Message{}, 0, nil
	}

	query := "SELECT id, title, body, created_date, updated_date FROM messages" + where +
		" ORDER BY created_date ASC, id ASC"
	if !p.Unbounded() {
		query += " LIMIT ? OFFSET ?"
		args = append(args, p.Size, p.Offset())
	}

	var rows []messageRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	result := make([]*message.Message, 0, len(rows))
	for _, row := range rows {
		m, err := row.toMessage()
		if err != nil {
			return nil, 0, err
		}
		result = append(result, m)
	}
	return result, total, nil
}

func (s *Store) Purge(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM messages")
	if err != nil {
		return fmt.Errorf("failed to purge messages: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		s.logger.InfoContext(ctx, "Purged messages", "count", n)
	}
	return nil
}

// whereClause builds the filter conditions. instr() compares bytes, so the
// title match is case-sensitive.
func whereClause(f message.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.ID != nil {
		conds = append(conds, "id = ?")
		args = append(args, f.ID.String())
	}
	if f.Title != "" {
		conds = append(conds, "instr(title, ?) > 0")
		args = append(args, f.Title)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
