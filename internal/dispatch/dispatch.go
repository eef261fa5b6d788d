// Package dispatch runs pure per-pixel kernels over a regular grid,
// tiled 8×8 across a worker pool. Each invocation writes exactly one
// output location, so no synchronization beyond the final join is
// needed.
package dispatch

import (
	"runtime"
	"sync"
)

// TileSize is the thread-group tiling of the pixel grid.
const TileSize = 8

// Run invokes kernel(x, y) once for every pixel of a w×h grid.
func Run(w, h, workers int, kernel func(x, y int)) {
	if w <= 0 || h <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	tilesX := (w + TileSize - 1) / TileSize
	tilesY := (h + TileSize - 1) / TileSize
	total := tilesX * tilesY

	tiles := make(chan int, workers*2)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tiles {
				x0 := (t % tilesX) * TileSize
				y0 := (t / tilesX) * TileSize
				x1 := x0 + TileSize
				y1 := y0 + TileSize
				if x1 > w {
					x1 = w
				}
				if y1 > h {
					y1 = h
				}
				for y := y0; y < y1; y++ {
					for x := x0; x < x1; x++ {
						kernel(x, y)
					}
				}
			}
		}()
	}

	for t := 0; t < total; t++ {
		tiles <- t
	}
	close(tiles)
	wg.Wait()
}
