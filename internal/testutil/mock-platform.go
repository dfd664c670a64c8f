package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"curseupload/internal/core/domain"
	ports "curseupload/internal/core/ports/output"
)

// MockPlatformClient is a mock of PlatformClient.
type MockPlatformClient struct {
	mock.Mock
}

func (m *MockPlatformClient) ListVersionTypes(ctx context.Context, token string) ([]domain.VersionType, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VersionType), args.Error(1)
}

func (m *MockPlatformClient) ListVersions(ctx context.Context, token string) ([]domain.GameVersion, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GameVersion), args.Error(1)
}

func (m *MockPlatformClient) UploadFile(ctx context.Context, req ports.UploadRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

// SampleVersionTypes mirrors the shape of the platform's taxonomy: two game
// types, java, modloader and an unrelated type that must be filtered out.
func SampleVersionTypes() []domain.VersionType {
	return []domain.VersionType{
		{ID: 1, Name: "Minecraft 1.20", Slug: "minecraft-1-20"},
		{ID: 2, Name: "Minecraft 1.19", Slug: "minecraft-1-19"},
		{ID: 3, Name: "Java", Slug: "java"},
		{ID: 4, Name: "Modloader", Slug: "modloader"},
		{ID: 5, Name: "Bukkit", Slug: "bukkit"},
	}
}

func SampleVersions() []domain.GameVersion {
	return []domain.GameVersion{
		{ID: 9990, Name: "1.20.1", GameVersionTypeID: 1},
		{ID: 9989, Name: "1.20", GameVersionTypeID: 1},
		{ID: 9366, Name: "1.19.2", GameVersionTypeID: 2},
		{ID: 8326, Name: "Java 17", GameVersionTypeID: 3},
		{ID: 7498, Name: "Forge", GameVersionTypeID: 4},
		{ID: 7499, Name: "Fabric", GameVersionTypeID: 4},
		{ID: 1111, Name: "1.20.1-Bukkit", GameVersionTypeID: 5},
	}
}

// NewCatalogMock returns a mock that serves the sample catalog to any token.
func NewCatalogMock() *MockPlatformClient {
	m := new(MockPlatformClient)
	m.On("ListVersionTypes", mock.Anything, mock.Anything).Return(SampleVersionTypes(), nil)
	m.On("ListVersions", mock.Anything, mock.Anything).Return(SampleVersions(), nil)
	return m
}
