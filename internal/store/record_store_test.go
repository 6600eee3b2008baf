package store

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/shopupload/internal/db"
	"github.com/vbonduro/shopupload/internal/domain"
)

type recordRepository interface {
	Insert(ctx context.Context, rec *domain.Record) error
	GetByID(ctx context.Context, id int64) (*domain.Record, error)
	List(ctx context.Context) ([]*domain.Record, error)
	Count(ctx context.Context) (int, error)
}

// backends runs fn once per record store implementation.
func backends(t *testing.T, fn func(t *testing.T, s recordRepository)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryRecordStore())
	})
	t.Run("sqlite", func(t *testing.T) {
		d, err := db.OpenForTesting()
		require.NoError(t, err)
		t.Cleanup(func() { _ = d.Close() })
		fn(t, NewRecordStore(d))
	})
}

func newRecord(id int64, name string) *domain.Record {
	return &domain.Record{
		ID:        id,
		Name:      name,
		Price:     4.5,
		Content:   "iced",
		CreatedAt: time.UnixMilli(id).UTC(),
	}
}

func TestRecordStoreInsertAndGet(t *testing.T) {
	backends(t, func(t *testing.T, s recordRepository) {
		ctx := context.Background()
		filename := "latte_1700000000000.png"
		rec := newRecord(1_700_000_000_000, "Latte")
		rec.Filename = &filename

		require.NoError(t, s.Insert(ctx, rec))

		got, err := s.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, "Latte", got.Name)
		assert.Equal(t, 4.5, got.Price)
		assert.Equal(t, "iced", got.Content)
		require.NotNil(t, got.Filename)
		assert.Equal(t, filename, *got.Filename)
		assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	})
}

func TestRecordStoreGetMissing(t *testing.T) {
	backends(t, func(t *testing.T, s recordRepository) {
		got, err := s.GetByID(context.Background(), 42)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRecordStoreNoFile(t *testing.T) {
	backends(t, func(t *testing.T, s recordRepository) {
		ctx := context.Background()
		require.NoError(t, s.Insert(ctx, newRecord(10, "Mocha")))

		got, err := s.GetByID(ctx, 10)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Nil(t, got.Filename)
	})
}

func TestRecordStoreNaNPrice(t *testing.T) {
	backends(t, func(t *testing.T, s recordRepository) {
		ctx := context.Background()
		rec := newRecord(7, "Mystery")
		rec.Price = math.NaN()
		require.NoError(t, s.Insert(ctx, rec))

		got, err := s.GetByID(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, math.IsNaN(got.Price))
	})
}

func TestRecordStoreDuplicateID(t *testing.T) {
	backends(t, func(t *testing.T, s recordRepository) {
		ctx := context.Background()
		require.NoError(t, s.Insert(ctx, newRecord(5, "first")))

		err := s.Insert(ctx, newRecord(5, "second"))
		require.ErrorIs(t, err, ErrDuplicateID)

		got, err := s.GetByID(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, "first", got.Name)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestRecordStoreListNewestFirst(t *testing.T) {
	backends(t, func(t *testing.T, s recordRepository) {
		ctx := context.Background()
		for _, id := range []int64{30, 10, 50, 20, 40} {
			require.NoError(t, s.Insert(ctx, newRecord(id, "r")))
		}

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 5)

		var ids []int64
		for _, r := range list {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, []int64{50, 40, 30, 20, 10}, ids)
	})
}

func TestRecordStoreListEmpty(t *testing.T) {
	backends(t, func(t *testing.T, s recordRepository) {
		list, err := s.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestMemoryRecordStoreReturnsCopies(t *testing.T) {
	s := NewMemoryRecordStore()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, newRecord(1, "Latte")))

	got, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Latte", again.Name)
}

func TestMemoryRecordStoreConcurrentInsert(t *testing.T) {
	s := NewMemoryRecordStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			assert.NoError(t, s.Insert(ctx, newRecord(id, "r")))
		}(int64(i + 1))
	}
	wg.Wait()

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 100)
	for i := 1; i < len(list); i++ {
		assert.Greater(t, list[i-1].ID, list[i].ID)
	}
}
