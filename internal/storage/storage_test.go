package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryBlobs is an in-memory BlobStore
type memoryBlobs struct {
	mu    sync.Mutex
	blobs map[string][]byte
	fail  bool
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{blobs: make(map[string][]byte)}
}

func (m *memoryBlobs) Store(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("service unavailable")
	}
	m.blobs[name] = append([]byte(nil), data...)
	return nil
}

func (m *memoryBlobs) Retrieve(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[name]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return data, nil
}

func (m *memoryBlobs) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name := range m.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

var _ BlobStore = (*memoryBlobs)(nil)

type payload struct {
	Value string `json:"value"`
}

func repositories(t *testing.T) map[string]AnalysisRepository {
	t.Helper()

	memory, err := NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	file, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "analyses.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		memory.Close()
		file.Close()
	})

	return map[string]AnalysisRepository{
		"sqlite-memory": memory,
		"sqlite-file":   file,
		"blob":          NewBlobRepository(newMemoryBlobs()),
	}
}

func mustRecord(t *testing.T, kind, subject, userID string, at time.Time, value string) Record {
	t.Helper()
	rec, err := NewRecord(kind, subject, userID, at, payload{Value: value})
	require.NoError(t, err)
	return rec
}

func TestRepository_Latest(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Save(ctx, mustRecord(t, KindNews, "acme", "user-1", base, "old")))
			require.NoError(t, repo.Save(ctx, mustRecord(t, KindNews, "acme", "user-1", base.Add(2*time.Hour), "new")))
			require.NoError(t, repo.Save(ctx, mustRecord(t, KindNews, "acme", "user-2", base.Add(3*time.Hour), "other user")))
			require.NoError(t, repo.Save(ctx, mustRecord(t, KindSocial, "acme", "user-1", base.Add(4*time.Hour), "other kind")))
			require.NoError(t, repo.Save(ctx, mustRecord(t, KindNews, "acme/inc", "user-1", base.Add(5*time.Hour), "other subject")))

			rec, err := repo.Latest(ctx, KindNews, "acme", "user-1")
			require.NoError(t, err)
			require.NotNil(t, rec)

			var p payload
			require.NoError(t, rec.Decode(&p))
			assert.Equal(t, "new", p.Value)
			assert.True(t, rec.CreatedAt.Equal(base.Add(2*time.Hour)))
			assert.Equal(t, "acme", rec.Subject)
			assert.Equal(t, "user-1", rec.UserID)
		})
	}
}

func TestRepository_LatestMissing(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			rec, err := repo.Latest(context.Background(), KindWebsite, "https://example.com", "nobody")

			assert.NoError(t, err)
			assert.Nil(t, rec)
		})
	}
}

func TestRepository_ListSince(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Save(ctx, mustRecord(t, KindSocial, "acme", "u", base.Add(-48*time.Hour), "too old")))
			require.NoError(t, repo.Save(ctx, mustRecord(t, KindSocial, "acme", "u", base, "boundary")))
			require.NoError(t, repo.Save(ctx, mustRecord(t, KindSocial, "contoso", "u", base.Add(time.Hour), "newest")))
			require.NoError(t, repo.Save(ctx, mustRecord(t, KindSocial, "acme", "someone else", base.Add(time.Hour), "skip")))

			records, err := repo.ListSince(ctx, KindSocial, "u", base)
			require.NoError(t, err)
			require.Len(t, records, 2)

			assert.Equal(t, "contoso", records[0].Subject)
			assert.Equal(t, "acme", records[1].Subject)

			var p payload
			require.NoError(t, records[1].Decode(&p))
			assert.Equal(t, "boundary", p.Value)
		})
	}
}

func TestBlobRepository_SaveError(t *testing.T) {
	blobs := newMemoryBlobs()
	blobs.fail = true
	repo := NewBlobRepository(blobs)

	err := repo.Save(context.Background(), mustRecord(t, KindReport, "weekly", "u", time.Now(), "x"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), KindReport)
}

func TestBlobName(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)

	name := blobName(KindWebsite, "user 1", "https://example.com/a", at)
	assert.Equal(t, "website_analyses/user%201/https:%2F%2Fexample.com%2Fa/20240102T030405.000000006Z.json", name)

	key, ok := parseBlobName(name)
	require.True(t, ok)
	assert.Equal(t, "user 1", key.UserID)
	assert.Equal(t, "https://example.com/a", key.Subject)
	assert.True(t, key.CreatedAt.Equal(at))

	_, ok = parseBlobName("website_analyses/readme.txt")
	assert.False(t, ok)
}

func TestRecord_DecodeError(t *testing.T) {
	rec := Record{Kind: KindNews, Data: []byte("not json")}

	var p payload
	assert.Error(t, rec.Decode(&p))
}
