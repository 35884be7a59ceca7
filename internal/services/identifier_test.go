package services_test

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var identifierPattern = regexp.MustCompile(`^ORD-\d+-\d{1,4}$`)

// sequence returns a random source that yields values in order, then repeats the last one.
func sequence(values ...int) func(int) int {
	var mu sync.Mutex
	i := 0
	return func(int) int {
		mu.Lock()
		defer mu.Unlock()
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

func TestIdentifierGenerator_Format(t *testing.T) {
	id := services.NewIdentifierGenerator().Generate("ORD", nil)
	assert.Regexp(t, identifierPattern, id)

	gen := services.NewIdentifierGeneratorWith(fixedClock, sequence(42))
	assert.Equal(t, fmt.Sprintf("PAY-%d-42", fixedClock().UnixMilli()), gen.Generate("PAY", nil))
}

func TestIdentifierGenerator_RetriesOnCollision(t *testing.T) {
	gen := services.NewIdentifierGeneratorWith(fixedClock, sequence(1, 1, 2))
	taken := map[string]bool{fmt.Sprintf("ORD-%d-1", fixedClock().UnixMilli()): true}

	lookups := 0
	id := gen.Generate("ORD", func(candidate string) (bool, error) {
		lookups++
		return taken[candidate], nil
	})
	assert.Equal(t, fmt.Sprintf("ORD-%d-2", fixedClock().UnixMilli()), id)
	assert.Equal(t, 3, lookups)
}

func TestIdentifierGenerator_TerminatesWhenEverythingCollides(t *testing.T) {
	gen := services.NewIdentifierGeneratorWith(fixedClock, sequence(7))

	lookups := 0
	id := gen.Generate("ORD", func(string) (bool, error) {
		lookups++
		return true, nil
	})
	assert.Equal(t, 10, lookups)
	assert.Regexp(t, identifierPattern, id)
}

func TestIdentifierGenerator_LookupErrorFallsBack(t *testing.T) {
	gen := services.NewIdentifierGeneratorWith(fixedClock, sequence(3))

	lookups := 0
	id := gen.Generate("ORD", func(string) (bool, error) {
		lookups++
		return false, errors.New("db down")
	})
	assert.Equal(t, 1, lookups)
	assert.Regexp(t, identifierPattern, id)
}

func TestIdentifierGenerator_ConcurrentGenerationIsUnique(t *testing.T) {
	gen := services.NewIdentifierGenerator()

	var (
		mu    sync.Mutex
		taken = map[string]bool{}
	)
	// Every lookup reserves the candidate it reports as free, like a unique index would.
	exists := func(candidate string) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		if taken[candidate] {
			return true, nil
		}
		taken[candidate] = true
		return false, nil
	}

	const workers = 50
	ids := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- gen.Generate("ORD", exists)
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		require.False(t, seen[id], "duplicate identifier %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestIdentifierGenerator_UsesCurrentTime(t *testing.T) {
	before := time.Now().UnixMilli()
	id := services.NewIdentifierGenerator().Generate("TXN", nil)
	var millis, random int64
	_, err := fmt.Sscanf(id, "TXN-%d-%d", &millis, &random)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, millis, before)
	assert.Less(t, random, int64(10000))
}
