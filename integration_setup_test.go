//go:build integration

package mdmath

// Notes:
// - Integration test setup: shared ConverterPool for all integration tests
// - testPool is initialized in TestMain and closed after all tests complete
// - acquireConverter provides automatic cleanup via t.Cleanup()
// - Pool size is capped at 4 for CI environments to avoid resource exhaustion

import (
	"context"
	"os"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test Configuration
// ---------------------------------------------------------------------------

// testTimeout is the standard timeout for integration test operations.
const testTimeout = 60 * time.Second

// testPool is shared by all integration tests, which only Acquire and
// Release from it.
var testPool *ConverterPool

// ---------------------------------------------------------------------------
// TestMain - Integration Test Setup and Teardown
// ---------------------------------------------------------------------------

func TestMain(m *testing.M) {
	testPool = NewConverterPool(min(ResolvePoolSize(0), 4), WithTimeout(testTimeout))

	code := m.Run()

	_ = testPool.Close()
	os.Exit(code)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// acquireConverter gets a converter from the shared pool and releases it
// when the test ends.
func acquireConverter(t *testing.T) *Converter {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	conv, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	t.Cleanup(func() { testPool.Release(conv) })
	return conv
}
