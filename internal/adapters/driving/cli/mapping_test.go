package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat/internal/core/domain"
)

// fakeMappingService implements driving.MappingService in memory.
type fakeMappingService struct {
	mappings []domain.Mapping
	addErr   error
}

func (f *fakeMappingService) Add(_ context.Context, key, sourceID string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.mappings = append(f.mappings, domain.Mapping{Key: key, SourceID: sourceID, CreatedAt: time.Now()})
	return nil
}

func (f *fakeMappingService) List(_ context.Context, key string) ([]domain.Mapping, error) {
	if key == "" {
		return f.mappings, nil
	}
	var out []domain.Mapping
	for _, m := range f.mappings {
		if m.Key == key {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMappingService) Resolve(_ context.Context, key string) ([]string, error) {
	var ids []string
	for _, m := range f.mappings {
		if m.Key == key {
			ids = append(ids, m.SourceID)
		}
	}
	return ids, nil
}

func withFakeMapping(t *testing.T, fake *fakeMappingService) {
	t.Helper()
	originalService := mappingService
	mappingService = fake
	t.Cleanup(func() {
		mappingService = originalService
		mappingListKey = ""
	})
}

func TestMappingAddCmd(t *testing.T) {
	fake := &fakeMappingService{}
	withFakeMapping(t, fake)

	out, err := runCommand(t, "mapping", "add", "+15550001", "src-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Mapped +15550001 -> src-1")
	require.Len(t, fake.mappings, 1)
}

func TestMappingAddCmd_Error(t *testing.T) {
	withFakeMapping(t, &fakeMappingService{addErr: domain.ErrNotFound})

	_, err := runCommand(t, "mapping", "add", "+15550001", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMappingListCmd_Empty(t *testing.T) {
	withFakeMapping(t, &fakeMappingService{})

	out, err := runCommand(t, "mapping", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No mappings.")
}

func TestMappingListCmd_FilterByPhone(t *testing.T) {
	fake := &fakeMappingService{mappings: []domain.Mapping{
		{Key: "+15550001", SourceID: "src-1", CreatedAt: time.Now()},
		{Key: "+15550002", SourceID: "src-2", CreatedAt: time.Now()},
	}}
	withFakeMapping(t, fake)

	out, err := runCommand(t, "mapping", "list", "--phone", "+15550001")

	require.NoError(t, err)
	assert.Contains(t, out, "src-1")
	assert.NotContains(t, out, "src-2")
}
