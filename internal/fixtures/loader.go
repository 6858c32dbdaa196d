// Package fixtures seeds a message store with generated test data.
package fixtures

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-faker/faker/v4"

	"messageapi/internal/message"
)

// DefaultCount is the number of messages a plain load creates.
const DefaultCount = 100

// Store is the subset of storage the loader needs.
type Store interface {
	message.Store
	message.Purger
}

// Loader fills a store with fake messages.
type Loader struct {
	store  Store
	logger *slog.Logger
	// Generate returns a title and body for the i-th message.
	Generate func(i int) (title, body string)
}

func NewLoader(store Store, logger *slog.Logger) *Loader {
	return &Loader{
		store:    store,
		logger:   logger.With("component", "fixtures"),
		Generate: fakeContent,
	}
}

// Load inserts count messages. Existing messages are purged first unless
// appendMode is set.
func (l *Loader) Load(ctx context.Context, count int, appendMode bool) ([]*message.Message, error) {
	if count < 0 {
		return nil, fmt.Errorf("fixture count must not be negative, got %d", count)
	}

	if !appendMode {
		l.logger.InfoContext(ctx, "Purging existing messages")
		if err := l.store.Purge(ctx); err != nil {
			return nil, fmt.Errorf("failed to purge messages: %w", err)
		}
	}

	created := make([]*message.Message, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		title, body := l.Generate(i)
		m, err := message.New(title, body)
		if err != nil {
			return created, fmt.Errorf("fixture %d: %w", i, err)
		}
		if err := l.store.Insert(ctx, m); err != nil {
			return created, fmt.Errorf("fixture %d: %w", i, err)
		}
		created = append(created, m)
	}

	l.logger.InfoContext(ctx, "Loaded fixtures", "count", len(created), "append", appendMode)
	return created, nil
}

func fakeContent(int) (string, string) {
	title := faker.Sentence()
	if len([]rune(title)) > message.TitleMaxLength {
		title = string([]rune(title)[:message.TitleMaxLength])
	}
	return title, faker.Paragraph()
}
