// Copyright © 2026 One Concern

package core

import (
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// BatchJob is a contiguous slice of a work list processed by one concurrent
// worker. A job is mutated only by that worker, so no locking is needed on
// the job itself.
type BatchJob struct {
	ID        int
	Items     []string
	Completed bool
}

// getBatches splits a homogeneous work list into at most one batch per
// available core in multithread mode, a single batch otherwise. Items
// keep their input order and fill each batch up to ceil(len/cores)
// before the next one starts. Filling in order keeps the split
// deterministic and reproducible; the tail batch may run short of the
// others by more than one item (e.g. 10 items over 4 cores split as
// 3,3,3,1), which is accepted in exchange for the stable ordering.
//
// An empty item list yields zero batches.
func getBatches(items []string, multiThread bool) []*BatchJob {
	if len(items) == 0 {
		return nil
	}
	n := 1
	if multiThread {
		n = runtime.NumCPU()
	}
	recordsPerBatch := (len(items) + n - 1) / n

	batches := make([]*BatchJob, 0, n)
	for start := 0; start < len(items); start += recordsPerBatch {
		end := start + recordsPerBatch
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, &BatchJob{
			ID:    len(batches),
			Items: items[start:end],
		})
	}
	return batches
}

// runBatches launches every batch concurrently and invokes the worker per
// item. The first worker error interrupts the remaining batches and is
// returned; an abort request stops each batch at its next iteration
// boundary without error, leaving partial results in place. The final
// merge belongs to the caller and happens exactly once, after the last
// batch has completed.
func (c *Connection) runBatches(batches []*BatchJob, worker func(item string) error) error {
	if len(batches) == 0 {
		return nil
	}

	var (
		wg   sync.WaitGroup
		once sync.Once
		werr error
	)
	doneC := make(chan struct{})

	for _, toPin := range batches {
		batch := toPin
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, item := range batch.Items {
				if c.Aborted() {
					c.l.Debug("abort requested, stopping batch", zap.Int("batch", batch.ID))
					return
				}
				select {
				case <-doneC:
					return
				default:
				}
				if err := worker(item); err != nil {
					once.Do(func() {
						werr = err
						close(doneC)
					})
					return
				}
			}
			batch.Completed = true
		}()
	}
	wg.Wait()
	return werr
}

// allCompleted reports whether every batch ran to completion, i.e. the
// work list was neither aborted nor interrupted by a failure.
func allCompleted(batches []*BatchJob) bool {
	for _, b := range batches {
		if !b.Completed {
			return false
		}
	}
	return true
}
