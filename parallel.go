package beadpattern

import (
	"runtime"
	"sync"
)

// resolveWorkers clamps the requested worker count to [1, rows].
func resolveWorkers(workers, rows int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return max(1, min(workers, rows))
}

// parallelRows splits [0,rows) into contiguous bands and runs fn for each band
// on its own goroutine. worker is in [0, workers).
func parallelRows(rows, workers int, fn func(worker, y0, y1 int)) {
	if rows <= 0 {
		return
	}
	workers = resolveWorkers(workers, rows)
	if workers == 1 {
		fn(0, 0, rows)
		return
	}
	band := (rows + workers - 1) / workers
	var wg sync.WaitGroup
	for w := range workers {
		y0 := w * band
		if y0 >= rows {
			break
		}
		y1 := min(rows, y0+band)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(w, y0, y1)
		}()
	}
	wg.Wait()
}
