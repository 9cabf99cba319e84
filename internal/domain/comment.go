package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Comment is a value object embedded in a Question. Its ID is unique only
// within the parent thread.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Replies   []Reply   `json:"replies"`
	CreatedAt time.Time `json:"created_at"`
}

type Reply struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Thread is the newest-first comment sequence of a question. It is stored as
// a single JSONB document together with the rest of the aggregate.
type Thread []Comment

// Prepend inserts c at the head of the thread.
func (t Thread) Prepend(c Comment) Thread {
	out := make(Thread, 0, len(t)+1)
	out = append(out, c)

	return append(out, t...)
}

// Find returns the index of the comment with the given id, or -1.
func (t Thread) Find(commentID string) int {
	for i := range t {
		if t[i].ID == commentID {
			return i
		}
	}

	return -1
}

// AuthorIDs returns every comment and reply author in the thread.
func (t Thread) AuthorIDs() []string {
	ids := make([]string, 0, len(t))

	for _, c := range t {
		ids = append(ids, c.UserID)
		for _, r := range c.Replies {
			ids = append(ids, r.UserID)
		}
	}

	return ids
}

func (t Thread) Value() (driver.Value, error) {
	return jsonValue(t, t == nil)
}

func (t *Thread) Scan(src any) error {
	return scanJSON(src, t)
}

// ReopenEntry records one reopen of a resolved question.
type ReopenEntry struct {
	Reason         string    `json:"reason"`
	PreviousStatus Status    `json:"previous_status"`
	Date           time.Time `json:"date"`
}

type ReopenHistory []ReopenEntry

func (h ReopenHistory) Value() (driver.Value, error) {
	return jsonValue(h, h == nil)
}

func (h *ReopenHistory) Scan(src any) error {
	return scanJSON(src, h)
}

// jsonValue renders v as a JSON string so lib/pq sends it as text, not bytea.
func jsonValue(v any, isNil bool) (driver.Value, error) {
	if isNil {
		return "[]", nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func scanJSON(src any, dst any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}

	if len(raw) == 0 {
		return nil
	}

	return json.Unmarshal(raw, dst)
}
