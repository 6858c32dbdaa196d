package dbmysql

import (
	"context"
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"messageapi/internal/message"
)

const errDuplicateEntry = 1062

// MessageRepository stores messages in MySQL through GORM.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{
		db: db,
	}
}

func (r *MessageRepository) Insert(ctx context.Context, m *message.Message) error {
	if err := r.db.WithContext(ctx).Create(fromDomain(m)).Error; err != nil {
		if isDuplicateKey(err) {
			return &message.ConflictError{ID: m.ID}
		}
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// Update writes title, body and updated date. The created date is never rewritten.
func (r *MessageRepository) Update(ctx context.Context, m *message.Message) error {
	result := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("id = ?", m.ID.String()).
		Updates(map[string]interface{}{
			"title":        m.Title,
			"body":         m.Body,
			"updated_date": m.UpdatedDate.UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update message: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", message.ErrNotFound, m.ID)
	}

	return nil
}

func (r *MessageRepository) List(
	ctx context.Context,
	f message.Filter,
	p message.Page,
) ([]*message.Message, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&Message{}).
		Scopes(filterScope(f)).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	if total == 0 {
		return []*message.Message{}, 0, nil
	}

	query := r.db.WithContext(ctx).
		Scopes(filterScope(f)).
		Order("created_date ASC, id ASC")

	if !p.Unbounded() {
		query = query.Limit(p.Size)
	}

	if offset := p.Offset(); offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*Message
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	result := make([]*message.Message, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, 0, err
		}
		result = append(result, m)
	}

	return result, total, nil
}

func (r *MessageRepository) Purge(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&Message{}).Error
	if err != nil {
		return fmt.Errorf("failed to purge messages: %w", err)
	}
	return nil
}

func (r *MessageRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("sql.DB error: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// filterScope applies the id and title filters. The binary collation keeps
// the title match case-sensitive under case-insensitive table collations.
func filterScope(f message.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.ID != nil {
			db = db.Where("id = ?", f.ID.String())
		}
		if f.Title != "" {
			db = db.Where("LOCATE(?, title COLLATE utf8mb4_bin) > 0", f.Title)
		}
		return db
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry
}
