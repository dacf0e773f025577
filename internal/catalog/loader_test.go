package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/product"
)

// --- Mock implementations ---

type listResult struct {
	products []product.Product
	err      error
}

// mockCatalog answers ListProducts calls from a script, repeating the last
// entry once the script runs out.
type mockCatalog struct {
	mu      sync.Mutex
	lists   []listResult
	listN   int
	seedErr error
	seedN   atomic.Int32
	// gate, when set, blocks ListProducts until closed.
	gate chan struct{}
}

func (m *mockCatalog) ListProducts(_ context.Context) ([]product.Product, error) {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.listN
	if i >= len(m.lists) {
		i = len(m.lists) - 1
	}
	m.listN++
	return m.lists[i].products, m.lists[i].err
}

func (m *mockCatalog) SeedProducts(_ context.Context) error {
	m.seedN.Add(1)
	return m.seedErr
}

func (m *mockCatalog) listCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listN
}

// --- Helpers ---

func widget() product.Product {
	return product.Product{
		ID:          "1",
		Name:        "Widget",
		Description: "...",
		Price:       decimal.RequireFromString("9.99"),
	}
}

// --- Tests ---

func TestLoad_NonEmpty(t *testing.T) {
	m := &mockCatalog{lists: []listResult{{products: []product.Product{widget()}}}}

	got, err := NewLoader(m).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []product.Product{widget()}, got)
	assert.Equal(t, 1, m.listCalls())
	assert.Zero(t, m.seedN.Load())
}

func TestLoad_EmptySeedsAndRefetches(t *testing.T) {
	m := &mockCatalog{lists: []listResult{
		{products: []product.Product{}},
		{products: []product.Product{widget()}},
	}}

	got, err := NewLoader(m).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Widget", got[0].Name)
	assert.Equal(t, 2, m.listCalls())
	assert.Equal(t, int32(1), m.seedN.Load())
}

func TestLoad_StillEmptyAfterSeed(t *testing.T) {
	m := &mockCatalog{lists: []listResult{{products: []product.Product{}}}}

	got, err := NewLoader(m).Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, got)
	assert.Equal(t, 2, m.listCalls(), "re-fetches exactly once")
	assert.Equal(t, int32(1), m.seedN.Load())
}

func TestLoad_SeedFailureIgnored(t *testing.T) {
	m := &mockCatalog{
		lists: []listResult{
			{products: nil},
			{products: []product.Product{widget()}},
		},
		seedErr: errors.New("seed endpoint down"),
	}

	got, err := NewLoader(m).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLoad_ListError(t *testing.T) {
	listErr := errors.New("connection refused")
	m := &mockCatalog{lists: []listResult{{err: listErr}}}

	_, err := NewLoader(m).Load(context.Background())
	require.ErrorIs(t, err, listErr)
	assert.Zero(t, m.seedN.Load(), "no seeding after a failed listing")
	assert.Equal(t, 1, m.listCalls(), "no retry")
}

func TestLoad_RefetchError(t *testing.T) {
	refetchErr := errors.New("timeout")
	m := &mockCatalog{lists: []listResult{
		{products: []product.Product{}},
		{err: refetchErr},
	}}

	_, err := NewLoader(m).Load(context.Background())
	require.ErrorIs(t, err, refetchErr)
}

func TestLoad_ConcurrentCallsSeedOnce(t *testing.T) {
	m := &mockCatalog{
		lists: []listResult{
			{products: []product.Product{}},
			{products: []product.Product{widget()}},
		},
		gate: make(chan struct{}),
	}
	l := NewLoader(m)

	const callers = 5
	var wg sync.WaitGroup
	results := make([][]product.Product, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := l.Load(context.Background())
			assert.NoError(t, err)
			results[i] = got
		}()
	}

	// Let every caller reach the singleflight group before releasing.
	time.Sleep(50 * time.Millisecond)
	close(m.gate)
	wg.Wait()

	assert.Equal(t, int32(1), m.seedN.Load())
	for _, got := range results {
		assert.Len(t, got, 1)
	}
}

func TestLoad_CancelledCallerDoesNotFailOthers(t *testing.T) {
	m := &mockCatalog{
		lists: []listResult{{products: []product.Product{widget()}}},
		gate:  make(chan struct{}),
	}
	l := NewLoader(m)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := l.Load(firstCtx)
		firstErr <- err
	}()

	// Let the first caller start the shared load before joining it.
	time.Sleep(20 * time.Millisecond)
	second := make(chan []product.Product, 1)
	go func() {
		got, err := l.Load(context.Background())
		assert.NoError(t, err)
		second <- got
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(m.gate)
	select {
	case got := <-second:
		assert.Equal(t, []product.Product{widget()}, got)
	case <-time.After(time.Second):
		t.Fatal("joined caller did not finish")
	}
	assert.Equal(t, 1, m.listCalls())
}
