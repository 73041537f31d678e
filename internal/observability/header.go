package observability

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	HeaderServerTiming = "Server-Timing"
	HeaderCacheTime    = "X-Cache-Time"
	HeaderDBTime       = "X-DB-Time"
)

// Timing is one Server-Timing metric. A non-positive DurMs is left out.
type Timing struct {
	Name  string
	DurMs float64
	Desc  string
}

// String renders the metric, or "" when it has neither a duration nor a description.
func (t Timing) String() string {
	if t.DurMs <= 0 && t.Desc == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(t.Name)
	if t.DurMs > 0 {
		b.WriteString(";dur=")
		b.WriteString(formatMillis(t.DurMs))
	}
	if t.Desc != "" {
		b.WriteString(";desc=")
		b.WriteString(strconv.Quote(t.Desc))
	}
	return b.String()
}

// AddTimings appends every non-empty metric to h as its own Server-Timing value.
func AddTimings(h http.Header, timings ...Timing) {
	for _, t := range timings {
		if v := t.String(); v != "" {
			h.Add(HeaderServerTiming, v)
		}
	}
}

// SetMillis sets key when ms is positive and leaves any earlier value otherwise.
func SetMillis(h http.Header, key string, ms float64) {
	if ms > 0 {
		h.Set(key, formatMillis(ms))
	}
}

func formatMillis(ms float64) string {
	return strconv.FormatFloat(ms, 'f', 2, 64)
}
