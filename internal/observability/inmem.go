package observability

import "sync"

// Observation is one recorded event. Only the fields relevant to Kind are set.
type Observation struct {
	Kind    string  `json:"kind"`
	Source  string  `json:"source,omitempty"`
	Method  string  `json:"method,omitempty"`
	Route   string  `json:"route,omitempty"`
	Status  int     `json:"status,omitempty"`
	Records int     `json:"records,omitempty"`
	Created int     `json:"created,omitempty"`
	OK      bool    `json:"ok"`
	CacheMs float64 `json:"cacheMs,omitempty"`
	DbMs    float64 `json:"dbMs,omitempty"`
	DurMs   float64 `json:"durMs,omitempty"`
}

type Snapshot struct {
	CacheHits   int           `json:"cacheHits"`
	CacheMisses int           `json:"cacheMisses"`
	Recent      []Observation `json:"recent"`
}

// Inmem keeps the last max observations and running cache counters.
type Inmem struct {
	mu     sync.Mutex
	last   []*Observation
	max    int
	totals struct {
		cacheHits, cacheMiss int
	}
}

func NewInmem(max int) *Inmem {
	return &Inmem{
		max: max,
	}
}

func (m *Inmem) push(v *Observation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[1:]
	}
}

func (m *Inmem) ObserveLookup(source string, cacheMs, dbMs float64) {
	m.push(&Observation{Kind: "lookup", Source: source, CacheMs: cacheMs, DbMs: dbMs, OK: true})
}

func (m *Inmem) ObserveImport(records, created int, dbMs float64, ok bool) {
	m.push(&Observation{Kind: "import", Records: records, Created: created, DbMs: dbMs, OK: ok})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(&Observation{Kind: "http", Method: method, Route: route, Status: status, DurMs: durMs, OK: status < 500})
}

func (m *Inmem) ObserveKafka(processMs float64, ok bool) {
	m.push(&Observation{Kind: "kafka", DurMs: processMs, OK: ok})
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

	s := Snapshot{
		CacheHits:   m.totals.cacheHits,
		CacheMisses: m.totals.cacheMiss,
		Recent:      make([]Observation, 0, len(m.last)),
	}
	for _, o := range m.last {
		s.Recent = append(s.Recent, *o)
	}
	return s
}
