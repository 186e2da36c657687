package session

import (
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/chiehyu/popodoc/logger"
	"github.com/chiehyu/popodoc/services/search"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestGetReturnsWrittenCriteriaBeforeExpiry(t *testing.T) {
	assert := require.New(t)

	store := New(newTestLogger(), time.Minute)
	criteria := search.Criteria{SearchType: search.SearchTypeHospital, SearchTerm: "台大醫院", City: "台北"}

	store.Put("U1", criteria)

	got, found := store.Get("U1")
	assert.True(found)
	assert.Equal(criteria, got)
}

func TestGetAbsentUser(t *testing.T) {
	assert := require.New(t)

	store := New(newTestLogger(), time.Minute)

	_, found := store.Get("U-never-searched")
	assert.False(found)
}

func TestGetAfterExpiry(t *testing.T) {
	assert := require.New(t)

	store := New(newTestLogger(), 30*time.Millisecond)
	store.Put("U1", search.Criteria{SearchType: search.SearchTypeName, SearchTerm: "王小明"})

	time.Sleep(40 * time.Millisecond)

	_, found := store.Get("U1")
	assert.False(found)
}

func TestPutOverwritesAndResetsExpiry(t *testing.T) {
	assert := require.New(t)

	store := New(newTestLogger(), 60*time.Millisecond)
	store.Put("U1", search.Criteria{SearchType: search.SearchTypeName, SearchTerm: "first"})

	time.Sleep(40 * time.Millisecond)
	second := search.Criteria{SearchType: search.SearchTypeDepartment, SearchTerm: "牙科"}
	store.Put("U1", second)

	time.Sleep(40 * time.Millisecond)

	got, found := store.Get("U1")
	assert.True(found)
	assert.Equal(second, got)
}

func TestGetSweepsOtherUsersEntries(t *testing.T) {
	assert := require.New(t)

	store := New(newTestLogger(), 30*time.Millisecond)
	store.Put("U-stale", search.Criteria{SearchType: search.SearchTypeName, SearchTerm: "old"})

	time.Sleep(40 * time.Millisecond)

	// A read for any user sweeps every expired entry.
	_, found := store.Get("U-other")
	assert.False(found)
	assert.Zero(store.cache.ItemCount())
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	assert := require.New(t)

	store := New(newTestLogger(), time.Minute)

	var wg sync.WaitGroup
	for n := 0; n < 10; n++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Put("U1", search.Criteria{SearchType: search.SearchTypeName, SearchTerm: "王"})
		}()
		go func() {
			defer wg.Done()
			store.Get("U1")
		}()
	}
	wg.Wait()

	_, found := store.Get("U1")
	assert.True(found)
}
