package dictionary

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bastiangx/hope/pkg/selector"
	"github.com/stretchr/testify/require"
)

var testQueries = []string{
	"a", "ab", "abc", "abcd",
	"k", "kl", "klm", "klmz",
	"z", "zz", "zza", "\x00", "\xff\xff", "",
	"dead", "decade", "mezzanine", "blackmail",
}

func trainedDictionary(t testing.TB) *Dictionary {
	t.Helper()
	keys := randomKeys(rand.New(rand.NewSource(7)), 2000)
	d, err := Train(keys, TrainOptions{Selector: selector.NGram3Type, NumLimit: 1000, Workers: 4})
	require.NoError(t, err)
	return d
}

func TestMemoryLookupBasic(t *testing.T) {
	d := trainedDictionary(t)

	for _, iterations := range []int{100, 500, 1000} {
		t.Run(fmt.Sprintf("iterations_%d", iterations), func(t *testing.T) {
			var baseline runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&baseline)
			baselineGoroutines := runtime.NumGoroutine()

			for i := 0; i < iterations; i++ {
				for _, q := range testQueries {
					_, _ = d.LookupString(q)
					_ = d.Encode(q)
				}
			}

			var final runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&final)

			memDelta := int64(final.Alloc - baseline.Alloc)
			totalOps := iterations * len(testQueries)
			memPerOp := float64(memDelta) / float64(totalOps)
			goroutineDelta := runtime.NumGoroutine() - baselineGoroutines

			t.Logf("iterations=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
				iterations, totalOps, memDelta, memPerOp, goroutineDelta)

			if memPerOp > 1000 {
				t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
			}
			if goroutineDelta > 2 {
				t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
			}
		})
	}
}

func TestConcurrentLookups(t *testing.T) {
	d := trainedDictionary(t)

	want := make([]string, len(testQueries))
	for i, q := range testQueries {
		want[i] = Bits(d.Encode(q))
	}

	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 200},
		{workers: 4, iterationsPerWorker: 50},
		{workers: 8, iterationsPerWorker: 25},
	}

	for _, cfg := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", cfg.workers, cfg.iterationsPerWorker), func(t *testing.T) {
			var wg sync.WaitGroup
			var totalOps, mismatches atomic.Int64

			for w := 0; w < cfg.workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for iter := 0; iter < cfg.iterationsPerWorker; iter++ {
						for i, q := range testQueries {
							if Bits(d.Encode(q)) != want[i] {
								mismatches.Add(1)
							}
							totalOps.Add(1)
						}
					}
				}()
			}
			wg.Wait()

			t.Logf("workers=%d total_ops=%d", cfg.workers, totalOps.Load())
			require.Zero(t, mismatches.Load())
			require.Equal(t, int64(cfg.workers*cfg.iterationsPerWorker*len(testQueries)), totalOps.Load())
		})
	}
}
