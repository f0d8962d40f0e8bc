package history

import (
	"time"

	"hostwatch/internal/report"
)

// Summary is a basic statistics snapshot of archived cycles.
type Summary struct {
	Count        int
	From         time.Time
	To           time.Time
	AvgCPU       float64
	MaxCPU       float64
	AvgMemUsedMB float64
	LastBytesIn  uint64
	LastBytesOut uint64
	ReachablePct float64
	Incidents    int
}

// Summarize computes summary statistics for samples in a time window.
func Summarize(items []report.Sample, since time.Time) Summary {
	filtered := make([]report.Sample, 0, len(items))
	for _, s := range items {
		if s.Timestamp.After(since) || s.Timestamp.Equal(since) {
			filtered = append(filtered, s)
		}
	}

	if len(filtered) == 0 {
		return Summary{Count: 0}
	}

	var sumCPU, sumMem float64
	var reachable, incidents int
	maxCPU := 0.0
	from := filtered[0].Timestamp
	to := filtered[0].Timestamp
	last := filtered[0]

	for _, s := range filtered {
		sumCPU += s.CPUUtilization
		sumMem += float64(s.MemoryUsedMB)
		if s.CPUUtilization > maxCPU {
			maxCPU = s.CPUUtilization
		}
		if s.Reachable {
			reachable++
		}
		if s.Incident {
			incidents++
		}
		if s.Timestamp.Before(from) {
			from = s.Timestamp
		}
		if s.Timestamp.After(to) || s.Timestamp.Equal(to) {
			to = s.Timestamp
			last = s
		}
	}

	count := float64(len(filtered))
	return Summary{
		Count:        len(filtered),
		From:         from,
		To:           to,
		AvgCPU:       sumCPU / count,
		MaxCPU:       maxCPU,
		AvgMemUsedMB: sumMem / count,
		LastBytesIn:  last.BytesIn,
		LastBytesOut: last.BytesOut,
		ReachablePct: 100.0 * float64(reachable) / count,
		Incidents:    incidents,
	}
}
