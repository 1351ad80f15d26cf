// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

// DefaultHistoryLimit bounds how many snapshots a History retains before
// the oldest undo state is dropped. A 2048x2048 snapshot is 16 MiB, so the
// default keeps memory use under ~512 MiB for a full history.
const DefaultHistoryLimit = 32

// History is a linear undo/redo stack of canvas snapshots. Each entry is a
// full pixel copy of the canvas at some point in time; the current entry is
// the state the canvas shows now. Pushing after an undo truncates the redo
// tail, the usual editor behavior.
//
// History never talks to the GPU: callers snapshot and restore through the
// Canvas and hand the bytes here.
type History struct {
	states [][]byte
	index  int // current state; -1 when empty
	limit  int
}

// NewHistory creates a history retaining at most limit snapshots.
// A non-positive limit selects DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{index: -1, limit: limit}
}

// Push records a new current state, discarding any redo tail. The snapshot
// is retained as-is; the caller must not mutate it afterwards.
func (h *History) Push(snapshot []byte) {
	h.states = h.states[:h.index+1]
	h.states = append(h.states, snapshot)
	h.index++

	if len(h.states) > h.limit {
		drop := len(h.states) - h.limit
		h.states = append([][]byte(nil), h.states[drop:]...)
		h.index -= drop
	}
}

// Undo steps back one state and returns the snapshot to restore.
// Returns false when there is nothing to undo.
func (h *History) Undo() ([]byte, bool) {
	if h.index <= 0 {
		return nil, false
	}
	h.index--
	return h.states[h.index], true
}

// Redo steps forward one state and returns the snapshot to restore.
// Returns false when there is nothing to redo.
func (h *History) Redo() ([]byte, bool) {
	if h.index+1 >= len(h.states) {
		return nil, false
	}
	h.index++
	return h.states[h.index], true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return h.index+1 < len(h.states) }

// Len returns the number of retained states.
func (h *History) Len() int { return len(h.states) }

// Reset drops all states, e.g. after a canvas resize invalidates the
// snapshots' dimensions.
func (h *History) Reset() {
	h.states = nil
	h.index = -1
}
