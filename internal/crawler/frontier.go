package crawler

import "container/heap"

// Frontier is a priority queue of addresses waiting to be crawled.
// Pop always returns the entry with the smallest priority; entries with
// equal priority come out in the order they were pushed.
// Duplicates are accepted, deduplication happens when an entry is popped.
type Frontier struct {
	items  entryHeap
	seq    uint64
	queued map[string]int
}

type queuedEntry struct {
	entry FrontierEntry
	seq   uint64
}

// NewFrontier creates an empty frontier
func NewFrontier() *Frontier {
	return &Frontier{
		queued: make(map[string]int),
	}
}

// Push inserts an entry unconditionally
func (f *Frontier) Push(address string, priority int) {
	heap.Push(&f.items, queuedEntry{
		entry: FrontierEntry{Address: address, Priority: priority},
		seq:   f.seq,
	})
	f.seq++
	f.queued[address]++
}

// Pop removes and returns the most urgent entry.
// It returns false when the frontier is empty.
func (f *Frontier) Pop() (FrontierEntry, bool) {
	if f.items.Len() == 0 {
		return FrontierEntry{}, false
	}

	item := heap.Pop(&f.items).(queuedEntry)
	if n := f.queued[item.entry.Address]; n <= 1 {
		delete(f.queued, item.entry.Address)
	} else {
		f.queued[item.entry.Address] = n - 1
	}

	return item.entry, true
}

// IsEmpty reports whether no entries remain
func (f *Frontier) IsEmpty() bool {
	return f.items.Len() == 0
}

// Len returns the number of queued entries, duplicates included
func (f *Frontier) Len() int {
	return f.items.Len()
}

// Queued reports whether at least one entry for address is waiting
func (f *Frontier) Queued(address string) bool {
	return f.queued[address] > 0
}

// entryHeap implements heap.Interface ordered by (priority, seq)
type entryHeap []queuedEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].entry.Priority != h[j].entry.Priority {
		return h[i].entry.Priority < h[j].entry.Priority
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(queuedEntry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
