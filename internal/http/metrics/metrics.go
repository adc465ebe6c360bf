package metrics

import (
	"sync"

	"hirepath/internal/common"
)

// Collector keeps in-process request and error counters, exposed as JSON
// at /metrics.
type Collector struct {
	mu       sync.Mutex
	requests map[string]int64
	statuses map[int]int64
	errors   map[common.Code]int64
}

func NewCollector() *Collector {
	return &Collector{
		requests: make(map[string]int64),
		statuses: make(map[int]int64),
		errors:   make(map[common.Code]int64),
	}
}

func (c *Collector) ObserveRequest(route string, status int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests[route]++
	c.statuses[status]++
}

func (c *Collector) ObserveError(code common.Code) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors[code]++
}

type Snapshot struct {
	Requests map[string]int64      `json:"requests"`
	Statuses map[int]int64         `json:"statuses"`
	Errors   map[common.Code]int64 `json:"errors"`
}

func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := Snapshot{
		Requests: make(map[string]int64, len(c.requests)),
		Statuses: make(map[int]int64, len(c.statuses)),
		Errors:   make(map[common.Code]int64, len(c.errors)),
	}
	for route, count := range c.requests {
		snapshot.Requests[route] = count
	}
	for status, count := range c.statuses {
		snapshot.Statuses[status] = count
	}
	for code, count := range c.errors {
		snapshot.Errors[code] = count
	}
	return snapshot
}
