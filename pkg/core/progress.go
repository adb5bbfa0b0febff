// Copyright © 2026 One Concern

package core

import (
	"math"
	"sync"
)

// Stage identifies a step of an operation in progress events. Stages are
// advisory breadcrumbs, not a strict protocol: no ordering is enforced,
// but within one operation each pipeline emits them in a fixed order.
type Stage string

const (
	// StagePrepare is emitted while computing the candidate type list
	StagePrepare Stage = "prepare"

	// StageCreateProject is emitted while provisioning a scratch project
	StageCreateProject Stage = "create-project"

	// StageLoadingLocal is emitted while scanning local project files
	StageLoadingLocal Stage = "loading-local"

	// StageLoadingOrg is emitted while describing types on the org
	StageLoadingOrg Stage = "loading-org"

	// StageRetrieve is emitted while the org CLI pulls metadata
	StageRetrieve Stage = "retrieve"

	// StageProcess is emitted while reconciling retrieved files
	StageProcess Stage = "process"

	// StageCopyData is emitted once before files are copied back
	StageCopyData Stage = "copy-data"

	// StageCopyFile is emitted per file copied back over the project
	StageCopyFile Stage = "copy-file"

	// StageCompressFile is emitted per file rewritten by the canonicalizer
	StageCompressFile Stage = "compress-file"

	// StageBeforeDownload is emitted before each per-type download
	StageBeforeDownload Stage = "before-download"

	// StageAfterDownload is emitted after each completed per-type download
	StageAfterDownload Stage = "after-download"

	// StageErrorDownload is emitted when a per-type download is dropped
	StageErrorDownload Stage = "error-download"
)

// ProgressEvent is one best-effort notification to an observer. Every
// event carries the operation's current increment and percentage so an
// observer can render a progress bar without recomputation.
type ProgressEvent struct {
	Stage          Stage
	Increment      float64
	Percentage     float64
	MetadataType   string
	MetadataObject string
	MetadataItem   string
	Data           interface{}
}

// ProgressFunc consumes progress events. Emission is synchronous: a slow
// observer slows the operation down, so observers should hand events off
// quickly (see StreamObserver).
type ProgressFunc func(ProgressEvent)

// StreamObserver adapts a bounded channel into a ProgressFunc. Sends never
// block: events are dropped when the channel is full, preserving the
// best-effort contract. Cancellation is simply the consumer walking away;
// the producer never closes the channel it does not own.
func StreamObserver(events chan<- ProgressEvent) ProgressFunc {
	return func(ev ProgressEvent) {
		select {
		case events <- ev:
		default:
		}
	}
}

// progressTracker accumulates the percentage counters of one operation.
//
// increment is round(100/totalItems, 2) and percentage advances by one
// increment per completed item. The rounding drift on non-divisor item
// counts is accepted: the final percentage is increment*total, not an
// asserted 100.
type progressTracker struct {
	mu         sync.Mutex
	increment  float64
	percentage float64
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func (p *progressTracker) reset(totalItems int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.percentage = 0
	if totalItems <= 0 {
		p.increment = 0
		return
	}
	p.increment = round2(100 / float64(totalItems))
}

// step advances the percentage by one increment
func (p *progressTracker) step() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.percentage += p.increment
}

func (p *progressTracker) snapshot() (increment, percentage float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.increment, p.percentage
}

// report emits an event to at most one observer: the per-operation
// observer when set, else the connection level one, never both.
func (c *Connection) report(observer ProgressFunc, ev ProgressEvent) {
	cb := observer
	if cb == nil {
		cb = c.observer
	}
	if cb == nil {
		return
	}
	ev.Increment, ev.Percentage = c.progress.snapshot()
	cb(ev)
}
