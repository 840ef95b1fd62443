package analysis

import (
	"context"

	"github.com/azure/brand-pulse/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockPlatform is a mock implementation of Platform
type MockPlatform struct {
	mock.Mock
	name    string
	enabled bool
}

func NewMockPlatform(name string, enabled bool) *MockPlatform {
	return &MockPlatform{name: name, enabled: enabled}
}

func (m *MockPlatform) GetName() string {
	return m.name
}

func (m *MockPlatform) IsEnabled() bool {
	return m.enabled
}

func (m *MockPlatform) SearchItems(ctx context.Context, variant string) ([]models.RawItem, error) {
	args := m.Called(ctx, variant)
	items, _ := args.Get(0).([]models.RawItem)
	return items, args.Error(1)
}

func (m *MockPlatform) GetProfile(ctx context.Context, brand string) (models.BrandProfile, error) {
	args := m.Called(ctx, brand)
	return args.Get(0).(models.BrandProfile), args.Error(1)
}

func (m *MockPlatform) ResolveAuthor(ctx context.Context, authorID string) (models.AuthorProfile, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(models.AuthorProfile), args.Error(1)
}

var _ Platform = (*MockPlatform)(nil)
