package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPush(t *testing.T) {
	tests := []struct {
		name  string
		terms []string
		term  string
		want  []string
	}{
		{"empty", nil, "milk", []string{"milk"}},
		{"prepends", []string{"gas"}, "milk", []string{"milk", "gas"}},
		{"dedupes case-insensitively", []string{"gas", "Milk", "bread"}, "MILK", []string{"MILK", "gas", "bread"}},
		{"caps at limit", []string{"a", "b", "c", "d", "e"}, "f", []string{"f", "a", "b", "c", "d"}},
		{"dedupe then cap", []string{"a", "b", "c", "d", "e"}, "C", []string{"C", "a", "b", "d", "e"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Push(tc.terms, tc.term, DefaultLimit))
		})
	}
}

func TestService_MemoryStore(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(time.Minute), "memory", 0, nil)
	owner := uuid.New()

	terms, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.NotNil(t, terms)
	assert.Empty(t, terms)

	for _, term := range []string{"milk", "  ", "gas", "bread", "jeans", "eggs", "tires", " Gas "} {
		require.NoError(t, svc.Add(ctx, owner, term))
	}

	terms, err = svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gas", "tires", "eggs", "jeans", "bread"}, terms)

	other, err := svc.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	owner := uuid.New()
	require.NoError(t, store.Add(ctx, owner, "milk", DefaultLimit))

	terms, err := store.List(ctx, owner, DefaultLimit)
	require.NoError(t, err)
	terms[0] = "changed"

	again, err := store.List(ctx, owner, DefaultLimit)
	require.NoError(t, err)
	assert.Equal(t, []string{"milk"}, again)
}

// MockStore is a mock implementation of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) List(ctx context.Context, owner uuid.UUID, limit int) ([]string, error) {
	args := m.Called(ctx, owner, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) Add(ctx context.Context, owner uuid.UUID, term string, limit int) error {
	args := m.Called(ctx, owner, term, limit)
	return args.Error(0)
}

func TestService_StoreErrors(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	store := new(MockStore)
	store.On("List", mock.Anything, owner, 3).Return(nil, errors.New("connection refused")).Once()
	store.On("Add", mock.Anything, owner, "milk", 3).Return(errors.New("connection refused")).Once()

	svc := NewService(store, "postgres", 3, nil)

	_, err := svc.List(ctx, owner)
	assert.Error(t, err)
	assert.Error(t, svc.Add(ctx, owner, " milk "))
	assert.NoError(t, svc.Add(ctx, owner, ""))

	store.AssertExpectations(t)
}
