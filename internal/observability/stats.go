package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	PagesFetched      uint64            `json:"pages_fetched"`
	LinesScanned      uint64            `json:"lines_scanned"`
	StoriesExtracted  uint64            `json:"stories_extracted"`
	LinesSkipped      uint64            `json:"lines_skipped"`
	TablesLoaded      uint64            `json:"tables_loaded"`
	ErrorsTotal       uint64            `json:"errors_total"`
	FetchSecondsAvg   float64           `json:"fetch_seconds_avg"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	pagesFetched     uint64
	linesScanned     uint64
	storiesExtracted uint64
	linesSkipped     uint64
	tablesLoaded     uint64
	errorsTotal      uint64

	fetchCount uint64
	fetchNanos uint64

	statsMu           sync.Mutex
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

func IncPagesFetched() {
	atomic.AddUint64(&pagesFetched, 1)
}

func AddLinesScanned(n int) {
	if n <= 0 {
		return
	}
	atomic.AddUint64(&linesScanned, uint64(n))
}

func AddStoriesExtracted(n int) {
	if n <= 0 {
		return
	}
	atomic.AddUint64(&storiesExtracted, uint64(n))
}

func AddLinesSkipped(n int) {
	if n <= 0 {
		return
	}
	atomic.AddUint64(&linesSkipped, uint64(n))
}

func IncTablesLoaded() {
	atomic.AddUint64(&tablesLoaded, 1)
}

func ObserveFetchDuration(seconds float64) {
	if seconds <= 0 {
		return
	}
	atomic.AddUint64(&fetchCount, 1)
	atomic.AddUint64(&fetchNanos, uint64(seconds*1e9))
}

func IncError(errType, component string) {
	if errType == "" {
		errType = "unknown"
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&fetchCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&fetchNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		PagesFetched:      atomic.LoadUint64(&pagesFetched),
		LinesScanned:      atomic.LoadUint64(&linesScanned),
		StoriesExtracted:  atomic.LoadUint64(&storiesExtracted),
		LinesSkipped:      atomic.LoadUint64(&linesSkipped),
		TablesLoaded:      atomic.LoadUint64(&tablesLoaded),
		ErrorsTotal:       atomic.LoadUint64(&errorsTotal),
		FetchSecondsAvg:   avg,
		ErrorsByType:      errorsTypeCopy,
		ErrorsByComponent: errorsComponentCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
