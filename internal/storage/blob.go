package storage

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// blobTimeLayout is fixed width so lexical and chronological order agree
const blobTimeLayout = "20060102T150405.000000000Z"

// BlobRepository stores records as JSON blobs named
// <kind>/<user>/<subject>/<created>.json with user and subject path-escaped.
type BlobRepository struct {
	blobs BlobStore
}

var _ AnalysisRepository = (*BlobRepository)(nil)

// NewBlobRepository creates a repository over any blob store
func NewBlobRepository(blobs BlobStore) *BlobRepository {
	return &BlobRepository{blobs: blobs}
}

// Save writes the record as a new blob
func (r *BlobRepository) Save(ctx context.Context, rec Record) error {
	name := blobName(rec.Kind, rec.UserID, rec.Subject, rec.CreatedAt)
	if err := r.blobs.Store(ctx, name, rec.Data); err != nil {
		return fmt.Errorf("failed to save %s record: %w", rec.Kind, err)
	}
	return nil
}

// Latest returns the newest record for the key
func (r *BlobRepository) Latest(ctx context.Context, kind, subject, userID string) (*Record, error) {
	prefix := fmt.Sprintf("%s/%s/%s/", kind, url.PathEscape(userID), url.PathEscape(subject))
	names, err := r.blobs.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var (
		newest     string
		newestTime time.Time
	)
	for _, name := range names {
		key, ok := parseBlobName(name)
		if !ok || key.Subject != subject {
			continue
		}
		if newest == "" || key.CreatedAt.After(newestTime) {
			newest, newestTime = name, key.CreatedAt
		}
	}
	if newest == "" {
		return nil, nil
	}

	data, err := r.blobs.Retrieve(ctx, newest)
	if err != nil {
		return nil, err
	}

	return &Record{Kind: kind, Subject: subject, UserID: userID, CreatedAt: newestTime, Data: data}, nil
}

// ListSince returns the user's records of a kind created at or after since
func (r *BlobRepository) ListSince(ctx context.Context, kind, userID string, since time.Time) ([]Record, error) {
	prefix := fmt.Sprintf("%s/%s/", kind, url.PathEscape(userID))
	names, err := r.blobs.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	type match struct {
		name string
		key  Record
	}
	var matches []match
	for _, name := range names {
		key, ok := parseBlobName(name)
		if !ok || key.UserID != userID || key.CreatedAt.Before(since) {
			continue
		}
		matches = append(matches, match{name: name, key: key})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].key.CreatedAt.After(matches[j].key.CreatedAt)
	})

	records := make([]Record, 0, len(matches))
	for _, m := range matches {
		data, err := r.blobs.Retrieve(ctx, m.name)
		if err != nil {
			logrus.Warnf("Skipping unreadable record %s: %v", m.name, err)
			continue
		}
		rec := m.key
		rec.Data = data
		records = append(records, rec)
	}

	return records, nil
}

// Close is a no-op; blob clients hold no resources
func (r *BlobRepository) Close() error {
	return nil
}

func blobName(kind, userID, subject string, createdAt time.Time) string {
	return fmt.Sprintf("%s/%s/%s/%s.json",
		kind, url.PathEscape(userID), url.PathEscape(subject), createdAt.UTC().Format(blobTimeLayout))
}

// parseBlobName recovers the record key from a blob name
func parseBlobName(name string) (Record, bool) {
	parts := strings.Split(name, "/")
	if len(parts) != 4 || !strings.HasSuffix(parts[3], ".json") {
		return Record{}, false
	}

	userID, err := url.PathUnescape(parts[1])
	if err != nil {
		return Record{}, false
	}
	subject, err := url.PathUnescape(parts[2])
	if err != nil {
		return Record{}, false
	}
	createdAt, err := time.Parse(blobTimeLayout, strings.TrimSuffix(parts[3], ".json"))
	if err != nil {
		return Record{}, false
	}

	return Record{Kind: parts[0], Subject: subject, UserID: userID, CreatedAt: createdAt}, true
}
