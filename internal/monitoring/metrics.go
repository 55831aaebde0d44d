package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const maxResponseSamples = 1000

// Metrics holds application metrics. Counters are updated atomically; the
// sample window and status distribution are guarded by their own mutexes.
type Metrics struct {
	RequestCount     int64
	ErrorCount       int64
	UpstreamCalls    int64
	UpstreamFailures int64
	SkippedAnalyses  int64
	StartTime        time.Time

	ResponseTimes      []time.Duration
	ResponseTimesMutex sync.RWMutex

	RequestCountByStatus map[int]int64
	StatusMutex          sync.RWMutex
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		ResponseTimes:        make([]time.Duration, 0, maxResponseSamples),
		RequestCountByStatus: make(map[int]int64),
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// RecordUpstreamCall records one call to the emotion service
func (m *Metrics) RecordUpstreamCall(success bool) {
	atomic.AddInt64(&m.UpstreamCalls, 1)
	if !success {
		atomic.AddInt64(&m.UpstreamFailures, 1)
	}
}

// IncrementSkipped counts analyses answered without calling the service
func (m *Metrics) IncrementSkipped() {
	atomic.AddInt64(&m.SkippedAnalyses, 1)
}

// RecordResponseTime stores a response time sample (last 1000 kept)
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	m.ResponseTimesMutex.Lock()
	m.ResponseTimes = append(m.ResponseTimes, duration)
	if len(m.ResponseTimes) > maxResponseSamples {
		m.ResponseTimes = m.ResponseTimes[1:]
	}
	m.ResponseTimesMutex.Unlock()
}

// RecordRequestByStatus records request count by HTTP status code
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.StatusMutex.Lock()
	defer m.StatusMutex.Unlock()
	m.RequestCountByStatus[statusCode]++
}

// GetPercentileResponseTime calculates percentile response time
func (m *Metrics) GetPercentileResponseTime(percentile float64) time.Duration {
	m.ResponseTimesMutex.RLock()
	times := make([]time.Duration, len(m.ResponseTimes))
	copy(times, m.ResponseTimes)
	m.ResponseTimesMutex.RUnlock()

	if len(times) == 0 {
		return 0
	}

	sort.Slice(times, func(i, j int) bool {
		return times[i] < times[j]
	})

	index := int(float64(len(times)-1) * percentile / 100.0)
	if index >= len(times) {
		index = len(times) - 1
	}

	return times[index]
}

// GetStatusCodeDistribution returns request count by status code
func (m *Metrics) GetStatusCodeDistribution() map[int]int64 {
	m.StatusMutex.RLock()
	defer m.StatusMutex.RUnlock()

	distribution := make(map[int]int64, len(m.RequestCountByStatus))
	for code, count := range m.RequestCountByStatus {
		distribution[code] = count
	}
	return distribution
}

// GetStats returns current metrics statistics
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.RequestCount)
	errors := atomic.LoadInt64(&m.ErrorCount)
	upstreamCalls := atomic.LoadInt64(&m.UpstreamCalls)
	upstreamFailures := atomic.LoadInt64(&m.UpstreamFailures)

	errorRate := float64(0)
	if requests > 0 {
		errorRate = float64(errors) / float64(requests) * 100
	}

	upstreamFailureRate := float64(0)
	if upstreamCalls > 0 {
		upstreamFailureRate = float64(upstreamFailures) / float64(upstreamCalls) * 100
	}

	return map[string]interface{}{
		"uptime_seconds":                time.Since(m.StartTime).Seconds(),
		"start_time":                    m.StartTime.Format(time.RFC3339),
		"total_requests":                requests,
		"error_count":                   errors,
		"error_rate_percent":            errorRate,
		"upstream_calls":                upstreamCalls,
		"upstream_failures":             upstreamFailures,
		"upstream_failure_rate_percent": upstreamFailureRate,
		"skipped_analyses":              atomic.LoadInt64(&m.SkippedAnalyses),
		"p50_response_time_ms":          float64(m.GetPercentileResponseTime(50)) / 1e6,
		"p95_response_time_ms":          float64(m.GetPercentileResponseTime(95)) / 1e6,
		"p99_response_time_ms":          float64(m.GetPercentileResponseTime(99)) / 1e6,
		"status_code_distribution":      m.GetStatusCodeDistribution(),
	}
}

// Reset zeroes every counter and sample. Only tests call it; the server
// never resets its metrics.
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.RequestCount, 0)
	atomic.StoreInt64(&m.ErrorCount, 0)
	atomic.StoreInt64(&m.UpstreamCalls, 0)
	atomic.StoreInt64(&m.UpstreamFailures, 0)
	atomic.StoreInt64(&m.SkippedAnalyses, 0)

	m.ResponseTimesMutex.Lock()
	m.ResponseTimes = m.ResponseTimes[:0]
	m.ResponseTimesMutex.Unlock()

	m.StatusMutex.Lock()
	m.RequestCountByStatus = make(map[int]int64)
	m.StatusMutex.Unlock()
}
