package testpattern

import (
	"fmt"
	"sync"
	"time"
)

type seriesID int

const (
	seriesRawBytes seriesID = iota
	seriesCount
	seriesLatency
	seriesLoss
	numSeries
)

// statsLog accumulates per-frame figures into one-second buckets and
// keeps the last few buckets as "millis,value" entries.
type statsLog struct {
	lock    sync.Mutex
	max     int
	series  [numSeries][]string
	start   time.Time
	bytes   int
	updates int
	latency time.Duration
	full    int
}

func newStatsLog(size int, now time.Time) *statsLog {
	return &statsLog{max: size, start: now}
}

func (s *statsLog) record(now time.Time, bytes int, latency time.Duration, full bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if now.Sub(s.start) >= time.Second {
		s.flush(now)
	}
	s.bytes += bytes
	s.updates++
	s.latency += latency
	if full {
		s.full++
	}
}

func (s *statsLog) flush(now time.Time) {
	millis := now.UnixNano() / int64(time.Millisecond)
	var avgLatency float64
	var loss float64
	if s.updates > 0 {
		avgLatency = float64(s.latency) / float64(s.updates) / float64(time.Millisecond)
		loss = float64(s.full) / float64(s.updates)
	}

	s.append(seriesRawBytes, fmt.Sprintf("%d,%d", millis, s.bytes))
	s.append(seriesCount, fmt.Sprintf("%d,%d", millis, s.updates))
	s.append(seriesLatency, fmt.Sprintf("%d,%.2f", millis, avgLatency))
	s.append(seriesLoss, fmt.Sprintf("%d,%.3f", millis, loss))

	s.start = now
	s.bytes, s.updates, s.latency, s.full = 0, 0, 0, 0
}

func (s *statsLog) append(id seriesID, entry string) {
	entries := append(s.series[id], entry)
	if len(entries) > s.max {
		entries = entries[len(entries)-s.max:]
	}
	s.series[id] = entries
}

func (s *statsLog) snapshot(id seriesID) []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string(nil), s.series[id]...)
}
