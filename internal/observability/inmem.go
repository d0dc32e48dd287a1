package observability

import "sync"

type observe struct {
	Kind string `json:"kind"`

	Source  string  `json:"source,omitempty"`
	CacheMs float64 `json:"cache_ms,omitempty"`
	DBMs    float64 `json:"db_ms,omitempty"`

	Method string `json:"method,omitempty"`
	Route  string `json:"route,omitempty"`
	Status int    `json:"status,omitempty"`

	Requested int `json:"requested,omitempty"`
	Applied   int `json:"applied,omitempty"`

	DurMs float64 `json:"dur_ms,omitempty"`
	OK    bool    `json:"ok,omitempty"`
}

type Totals struct {
	CacheHits   int `json:"cache_hits"`
	CacheMisses int `json:"cache_misses"`
	Modified    int `json:"modified"`
	Rounded     int `json:"rounded"`
}

// Snapshot is a copy of the recorder state safe to serialize.
type Snapshot struct {
	Totals Totals     `json:"totals"`
	Last   []*observe `json:"last"`
}

// Inmem keeps the last max observations plus running totals.
type Inmem struct {
	mu     sync.Mutex
	last   []*observe
	max    int
	totals struct {
		cacheHits, cacheMiss int
		modified, rounded    int
	}
}

func NewInmem(max int) *Inmem {
	return &Inmem{
		max: max,
	}
}

func (m *Inmem) push(v *observe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[len(m.last)-max(m.max, 0):]
	}
}

func (m *Inmem) ObserveLookup(source string, cacheMs, dbMs float64) {
	m.push(&observe{Kind: "lookup", Source: source, CacheMs: cacheMs, DBMs: dbMs})
}

func (m *Inmem) ObserveUpsert(dbWriteMs float64) {
	m.push(&observe{Kind: "upsert", DBMs: dbWriteMs})
}

func (m *Inmem) ObserveModify(requested, applied int, durMs float64) {
	m.mu.Lock()
	m.totals.modified++
	if requested != applied {
		m.totals.rounded++
	}
	m.mu.Unlock()

	m.push(&observe{Kind: "modify", Requested: requested, Applied: applied, DurMs: durMs})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(&observe{Kind: "http", Method: method, Route: route, Status: status, DurMs: durMs})
}

func (m *Inmem) ObserveKafka(processMs float64, ok bool) {
	m.push(&observe{Kind: "kafka", DurMs: processMs, OK: ok})
}

func (m *Inmem) IncCacheHit() {
	m.mu.Lock()
	m.totals.cacheHits++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheMiss() {
	m.mu.Lock()
	m.totals.cacheMiss++
	m.mu.Unlock()
}

func (m *Inmem) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	last := make([]*observe, len(m.last))
	for i, o := range m.last {
		cp := *o
		last[i] = &cp
	}
	return Snapshot{
		Totals: Totals{
			CacheHits:   m.totals.cacheHits,
			CacheMisses: m.totals.cacheMiss,
			Modified:    m.totals.modified,
			Rounded:     m.totals.rounded,
		},
		Last: last,
	}
}
