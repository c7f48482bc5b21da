package gesture

import "sync"

// DefaultHistorySize is how many recent samples the rolling window keeps
const DefaultHistorySize = 50

// DetectionStats accumulates recognition activity: a cumulative counter
// plus a rolling window used for confidence and rate summaries.
type DetectionStats struct {
	mu      sync.Mutex
	total   int
	history []Sample
	max     int
}

// DetectionSummary describes recent detection performance
type DetectionSummary struct {
	TotalDetections   int            `json:"totalDetections"`
	AverageConfidence float64        `json:"averageConfidence"`
	MostCommon        string         `json:"mostCommonGesture"`
	PerMinute         float64        `json:"detectionRate"`
	Distribution      map[string]int `json:"gestureDistribution"`
}

// NewDetectionStats creates stats with the given rolling window size
func NewDetectionStats(max int) *DetectionStats {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &DetectionStats{max: max}
}

// Record adds a sample to the window
func (ds *DetectionStats) Record(s Sample) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.total++
	ds.history = append(ds.history, s)
	if len(ds.history) > ds.max {
		ds.history = ds.history[1:]
	}
}

// Summary computes detection statistics over the rolling window
func (ds *DetectionStats) Summary() DetectionSummary {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	summary := DetectionSummary{
		TotalDetections: ds.total,
		Distribution:    make(map[string]int),
	}

	if len(ds.history) == 0 {
		return summary
	}

	sum := 0.0
	for _, s := range ds.history {
		sum += s.Confidence
		summary.Distribution[s.Name]++
	}
	summary.AverageConfidence = sum / float64(len(ds.history))

	best := 0
	for name, count := range summary.Distribution {
		if count > best || (count == best && name < summary.MostCommon) {
			best = count
			summary.MostCommon = name
		}
	}

	if len(ds.history) >= 2 {
		span := ds.history[len(ds.history)-1].At.Sub(ds.history[0].At)
		if span > 0 {
			summary.PerMinute = float64(len(ds.history)-1) / span.Minutes()
		}
	}

	return summary
}

// Quality buckets a confidence value for presentation
func Quality(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "excellent"
	case confidence >= 0.8:
		return "good"
	case confidence >= 0.6:
		return "fair"
	default:
		return "poor"
	}
}
