package vecpic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire(context.Context) (*Converter, error)
	Release(*Converter)
	Size() int
	Close()
} = (*ConverterPool)(nil)

func newTestPool(t *testing.T, n int) *ConverterPool {
	t.Helper()
	pool := NewConverterPool(n, WithWorkDir(t.TempDir()), withTracer(&mockTracer{}))
	t.Cleanup(pool.Close)
	return pool
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit takes priority", 4, 4},
		{"explicit=1 for sequential", 1, 1},
		{"explicit can exceed max", 16, 16},
		{"zero uses auto calculation", 0, min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
		{"negative uses auto calculation", -3, min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestConverterPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := newTestPool(t, tt.size).Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConverterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)
	ctx := context.Background()

	conv1, err := pool.Acquire(ctx)
	if err != nil || conv1 == nil {
		t.Fatalf("Acquire() = %v, %v", conv1, err)
	}
	conv2, err := pool.Acquire(ctx)
	if err != nil || conv2 == nil {
		t.Fatalf("Acquire() = %v, %v", conv2, err)
	}
	if conv1 == conv2 {
		t.Error("expected different converter instances")
	}

	pool.Release(conv1)
	conv3, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if conv3 != conv1 {
		t.Error("expected to get back released converter")
	}

	pool.Release(conv2)
	pool.Release(conv3)
}

func TestConverterPool_AcquireBlocksUntilRelease(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 1)
	conv, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	got := make(chan *Converter)
	go func() {
		c, _ := pool.Acquire(context.Background())
		got <- c
	}()

	select {
	case <-got:
		t.Fatal("Acquire() returned while pool was exhausted")
	case <-time.After(20 * time.Millisecond):
	}

	pool.Release(conv)

	select {
	case c := <-got:
		if c != conv {
			t.Error("expected the released converter")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Acquire() did not wake after Release")
	}
}

func TestConverterPool_AcquireHonorsContext(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 1)
	if _, err := pool.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := pool.Acquire(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestConverterPool_CloseWakesWaiters(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 1)
	if _, err := pool.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	errc := make(chan error)
	go func() {
		_, err := pool.Acquire(context.Background())
		errc <- err
	}()

	time.Sleep(10 * time.Millisecond)
	pool.Close()

	select {
	case err := <-errc:
		if !errors.Is(err, ErrPoolClosed) {
			t.Errorf("Acquire() error = %v, want ErrPoolClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close() did not wake waiting Acquire")
	}
}

func TestConverterPool_AfterClose(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)
	conv, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	pool.Close()
	pool.Close() // second close is a no-op

	// Release after close should not panic
	pool.Release(conv)
	pool.Release(nil)

	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close = %v, want ErrPoolClosed", err)
	}
}

func TestConverterPool_CreationErrorFreesSlot(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	pool := NewConverterPool(1, WithWorkDir(file))
	defer pool.Close()

	for i := 0; i < 2; i++ {
		_, err := pool.Acquire(context.Background())
		if !errors.Is(err, ErrWorkDir) {
			t.Fatalf("attempt %d: Acquire() error = %v, want ErrWorkDir", i, err)
		}
	}
}

// TestConverterPool_HighContention verifies the pool remains deadlock-free
// with many goroutines cycling through a small pool.
func TestConverterPool_HighContention(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)

	var wg sync.WaitGroup
	goroutines := 50
	iterations := 10

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				conv, err := pool.Acquire(context.Background())
				if err != nil {
					t.Error(err)
					return
				}
				time.Sleep(time.Duration(j%3) * time.Millisecond)
				pool.Release(conv)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("high contention test timed out - possible deadlock")
	}
}
