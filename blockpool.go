package litefs

import (
	"fmt"
	"runtime"
	"sync"
)

// ParallelConfig controls parallel block processing for multi-block
// writes (Resize always processes blocks sequentially), adapted from the teacher's chunk-level ParallelConfig: each
// block's read-modify-write is independent (distinct IV, distinct
// underlying offset), so a write spanning many blocks can fan them out to a
// bounded worker pool instead of processing them one at a time.
type ParallelConfig struct {
	// Enabled turns on parallel processing.
	Enabled bool

	// MaxWorkers caps the number of worker goroutines. Zero defaults to
	// runtime.NumCPU().
	MaxWorkers int

	// MinBlocksForParallel is the minimum number of blocks a single
	// Write must touch before parallel processing kicks in; below
	// it, sequential processing avoids goroutine overhead. Zero defaults
	// to 4.
	MinBlocksForParallel int
}

// DefaultParallelConfig mirrors the teacher's DefaultParallelConfig: on by
// default, one worker per CPU, parallel only above a handful of blocks.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		Enabled:               true,
		MaxWorkers:            runtime.NumCPU(),
		MinBlocksForParallel:  4,
	}
}

// blockJob is one block's worth of read-modify-write work.
type blockJob struct {
	index uint32
	do    func() error
}

// runBlockJobs executes jobs, sequentially below cfg's threshold and
// through a bounded worker pool above it, returning the first error
// encountered (order among concurrent errors is unspecified, matching the
// teacher's parallelEncryptChunks/parallelDecryptChunks contract).
func runBlockJobs(cfg ParallelConfig, jobs []blockJob) error {
	if len(jobs) == 0 {
		return nil
	}

	minParallel := cfg.MinBlocksForParallel
	if minParallel <= 0 {
		minParallel = 4
	}
	if !cfg.Enabled || len(jobs) < minParallel {
		for _, j := range jobs {
			if err := j.do(); err != nil {
				return err
			}
		}
		return nil
	}

	numWorkers := cfg.MaxWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(jobs) {
		numWorkers = len(jobs)
	}

	var wg sync.WaitGroup
	jobChan := make(chan int, len(jobs))
	errChan := make(chan error, numWorkers)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					select {
					case errChan <- fmt.Errorf("litefs: panic in block worker: %v", r):
					default:
					}
				}
			}()
			for idx := range jobChan {
				if err := jobs[idx].do(); err != nil {
					select {
					case errChan <- err:
					default:
					}
					return
				}
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)
	wg.Wait()
	close(errChan)

	select {
	case err := <-errChan:
		return err
	default:
		return nil
	}
}
