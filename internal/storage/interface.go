package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Record kinds, one per logical table
const (
	KindNews    = "news_analyses"
	KindSocial  = "social_analyses"
	KindWebsite = "website_analyses"
	KindReport  = "reports"
)

// Record is one stored analysis or report. Records are append-only; the newest
// record for a (kind, subject, user) key wins.
type Record struct {
	Kind      string
	Subject   string
	UserID    string
	CreatedAt time.Time
	Data      []byte
}

// NewRecord encodes v as the JSON payload of a record
func NewRecord(kind, subject, userID string, createdAt time.Time, v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode %s record: %w", kind, err)
	}

	return Record{
		Kind:      kind,
		Subject:   subject,
		UserID:    userID,
		CreatedAt: createdAt.UTC(),
		Data:      data,
	}, nil
}

// Decode unmarshals the record payload into v
func (r Record) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s record: %w", r.Kind, err)
	}
	return nil
}

// AnalysisRepository defines the contract for analysis persistence
type AnalysisRepository interface {
	Save(ctx context.Context, rec Record) error
	// Latest returns the most recent record for the key, or nil when there is none
	Latest(ctx context.Context, kind, subject, userID string) (*Record, error)
	// ListSince returns the user's records of a kind created at or after since, newest first
	ListSince(ctx context.Context, kind, userID string, since time.Time) ([]Record, error)
	Close() error
}

// BlobStore defines the contract for raw blob operations
type BlobStore interface {
	Store(ctx context.Context, name string, data []byte) error
	Retrieve(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}
