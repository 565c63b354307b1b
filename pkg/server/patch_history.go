package server

import "sync"

// PatchHistory is a thread-safe ring buffer of recently encoded patch
// frames. A reconnecting client that names the last Seq it applied is
// replayed the frames after it, as long as they are still in the window.
// The oldest entries are overwritten when the buffer is full.
type PatchHistory struct {
	mu       sync.RWMutex
	seqs     []uint64
	frames   [][]byte
	head     int // Next write position (circular)
	count    int
	capacity int
}

// NewPatchHistory creates a history holding up to capacity frames.
func NewPatchHistory(capacity int) *PatchHistory {
	if capacity <= 0 {
		capacity = 256
	}
	return &PatchHistory{
		seqs:     make([]uint64, capacity),
		frames:   make([][]byte, capacity),
		capacity: capacity,
	}
}

// Add stores the encoded frame for seq. Sequences must be added in
// increasing order. The frame is not copied and must not be modified.
func (h *PatchHistory) Add(seq uint64, frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seqs[h.head] = seq
	h.frames[h.head] = frame
	h.head = (h.head + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}
}

// oldest returns the ring index of the oldest entry. The lock must be held.
func (h *PatchHistory) oldest() int {
	return (h.head - h.count + h.capacity) % h.capacity
}

// GetFrames returns the frames for sequences (afterSeq, toSeq] in order.
// It returns nil if any sequence in the range is missing. An empty range
// returns an empty, non-nil slice.
func (h *PatchHistory) GetFrames(afterSeq, toSeq uint64) [][]byte {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if toSeq <= afterSeq {
		return [][]byte{}
	}
	if h.count == 0 {
		return nil
	}

	start := h.oldest()
	minSeq := h.seqs[start]
	if afterSeq+1 < minSeq {
		return nil
	}

	frames := make([][]byte, 0, toSeq-afterSeq)
	want := afterSeq + 1
	for i := 0; i < h.count && want <= toSeq; i++ {
		idx := (start + i) % h.capacity
		switch seq := h.seqs[idx]; {
		case seq < want:
			continue
		case seq > want:
			return nil // Gap in the range
		}
		frames = append(frames, h.frames[idx])
		want++
	}
	if want <= toSeq {
		return nil
	}
	return frames
}

// MinSeq returns the oldest sequence in the buffer, or 0 when empty.
func (h *PatchHistory) MinSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.count == 0 {
		return 0
	}
	return h.seqs[h.oldest()]
}

// MaxSeq returns the newest sequence in the buffer, or 0 when empty.
func (h *PatchHistory) MaxSeq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.count == 0 {
		return 0
	}
	return h.seqs[(h.head-1+h.capacity)%h.capacity]
}

// Count returns the number of frames in the buffer.
func (h *PatchHistory) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}
