package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat/internal/core/domain"
)

func seedSource(t *testing.T, store *mockSourceStore, id string) {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), domain.Source{
		ID: id, Name: id + ".pdf", CreatedAt: time.Now(),
	}))
}

func TestMappingAdd(t *testing.T) {
	store := newMockSourceStore()
	seedSource(t, store, "src-1")
	svc := NewMappingService(store)

	require.NoError(t, svc.Add(context.Background(), "+15550001", "src-1"))

	ids, err := svc.Resolve(context.Background(), "+15550001")
	require.NoError(t, err)
	assert.Equal(t, []string{"src-1"}, ids)
}

func TestMappingAdd_UnknownSource(t *testing.T) {
	svc := NewMappingService(newMockSourceStore())

	err := svc.Add(context.Background(), "+15550001", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMappingAdd_Duplicate(t *testing.T) {
	store := newMockSourceStore()
	seedSource(t, store, "src-1")
	svc := NewMappingService(store)

	require.NoError(t, svc.Add(context.Background(), "+15550001", "src-1"))
	err := svc.Add(context.Background(), "+15550001", "src-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestMappingAdd_Validation(t *testing.T) {
	svc := NewMappingService(newMockSourceStore())

	assert.ErrorIs(t, svc.Add(context.Background(), "", "src-1"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Add(context.Background(), "+15550001", ""), domain.ErrInvalidInput)
}

func TestMappingList_FilterByKey(t *testing.T) {
	store := newMockSourceStore()
	seedSource(t, store, "src-1")
	seedSource(t, store, "src-2")
	svc := NewMappingService(store)

	require.NoError(t, svc.Add(context.Background(), "+15550001", "src-1"))
	require.NoError(t, svc.Add(context.Background(), "+15550002", "src-2"))
	require.NoError(t, svc.Add(context.Background(), "+15550001", "src-2"))

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := svc.List(context.Background(), "+15550001")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, m := range filtered {
		assert.Equal(t, "+15550001", m.Key)
	}
}

func TestMappingResolve_ManyToMany(t *testing.T) {
	store := newMockSourceStore()
	seedSource(t, store, "src-1")
	seedSource(t, store, "src-2")
	svc := NewMappingService(store)

	// One key to many sources, and one source under many keys.
	require.NoError(t, svc.Add(context.Background(), "+15550001", "src-1"))
	require.NoError(t, svc.Add(context.Background(), "+15550001", "src-2"))
	require.NoError(t, svc.Add(context.Background(), "+15550002", "src-1"))

	ids, err := svc.Resolve(context.Background(), "+15550001")
	require.NoError(t, err)
	assert.Equal(t, []string{"src-1", "src-2"}, ids)

	ids, err = svc.Resolve(context.Background(), "+15550002")
	require.NoError(t, err)
	assert.Equal(t, []string{"src-1"}, ids)
}

func TestMappingResolve_EmptyKey(t *testing.T) {
	svc := NewMappingService(newMockSourceStore())

	_, err := svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
