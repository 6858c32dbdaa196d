// Package message holds the Message entity, its lifecycle rules and the
// storage contract shared by every backend.
package message

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TitleMaxLength mirrors the VARCHAR(255) title column.
const TitleMaxLength = 255

// Message is a titled text entry with creation and modification timestamps.
type Message struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title" validate:"required,max=255"`
	Body        string    `json:"body" validate:"required"`
	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
}

// Now returns the current instant at the precision every backend can store.
func Now() time.Time {
	return normalize(time.Now())
}

func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// New creates a message stamped with the current time.
func New(title, body string) (*Message, error) {
	return NewAt(title, body, Now())
}

// NewAt creates a message whose created and updated dates are both at.
func NewAt(title, body string, at time.Time) (*Message, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}

	stamp := normalize(at)
	m := &Message{
		ID:          id,
		Title:       title,
		Body:        body,
		CreatedDate: stamp,
		UpdatedDate: stamp,
	}
	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Touch records a modification at the given time. UpdatedDate always moves
// forward, even when the clock did not.
func (m *Message) Touch(at time.Time) {
	stamp := normalize(at)
	if !stamp.After(m.UpdatedDate) {
		stamp = m.UpdatedDate.Add(time.Millisecond)
	}
	m.UpdatedDate = stamp
}

// SetTitle replaces the title and touches the message.
func (m *Message) SetTitle(title string) error {
	if err := validateField(title, "title", "required,max=255"); err != nil {
		return err
	}
	m.Title = title
	m.Touch(Now())
	return nil
}

// SetBody replaces the body and touches the message.
func (m *Message) SetBody(body string) error {
	if err := validateField(body, "body", "required"); err != nil {
		return err
	}
	m.Body = body
	m.Touch(Now())
	return nil
}
