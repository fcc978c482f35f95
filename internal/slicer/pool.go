package slicer

import (
	"fmt"
	"sync"
	"time"

	"github.com/cuongbtq/slicer-be/internal/volume"
)

// publishFunc receives one progress update per completed projection
type publishFunc func(done, total, percent int, status string)

// runProjections computes one 2D projection per angle using a bounded pool of
// workers. Results are returned in ascending-angle order regardless of
// completion order. The first failing angle aborts the remaining work and is
// returned; no partial result set is ever produced.
func runProjections(grid volume.Grid3D, angles []float64, workers int, publish publishFunc) ([]volume.Grid2D, error) {
	total := len(angles)
	results := make([]volume.Grid2D, total)
	tasks := make(chan int)

	if workers > total {
		workers = total
	}

	// done and firstErr are read and written only under mu, and every
	// progress publish happens inside the same critical section so counts
	// and percentages can never regress in the store.
	var mu sync.Mutex
	var done int
	var firstErr error

	start := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range tasks {
				mu.Lock()
				aborted := firstErr != nil
				mu.Unlock()
				if aborted {
					continue
				}

				projection, err := projectAngle(grid, angles[idx])

				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = fmt.Errorf("projection at %.2f degrees: %w", angles[idx], err)
					}
					mu.Unlock()
					continue
				}

				results[idx] = projection
				done++
				avg := time.Since(start) / time.Duration(done)
				eta := time.Duration(float64(avg) * float64(total-done)).Round(time.Second)
				percent := projectingStart + int(float64(done)/float64(total)*(encodingStart-projectingStart))
				publish(done, total, percent,
					fmt.Sprintf("Generating projection %d/%d (ETA: %s)", done, total, formatETA(eta)))
				mu.Unlock()
			}
		}()
	}

	for i := range angles {
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// projectAngle rotates the grid in the x-y plane, sums along the view axis
// and reorients the density map to the top-down image convention. A panic in
// the numeric kernel is reported as this angle's error so the stage can
// abort instead of hanging.
func projectAngle(grid volume.Grid3D, angle float64) (projection volume.Grid2D, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("projection panicked: %v", r)
		}
	}()

	if len(grid.Data) == 0 {
		return volume.Grid2D{}, fmt.Errorf("empty voxel grid")
	}

	rotated := grid.RotateXY(angle)
	projection = rotated.SumY().Transpose().FlipVertical()
	return projection, nil
}

// formatETA renders a remaining-time estimate for status text
func formatETA(eta time.Duration) string {
	if eta <= 0 {
		return "Almost done..."
	}
	if minutes := int(eta.Minutes()); minutes > 0 {
		return fmt.Sprintf("%dm%02ds", minutes, int(eta.Seconds())%60)
	}
	return fmt.Sprintf("%ds", int(eta.Seconds()))
}
