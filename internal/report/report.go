package report

import (
	"strconv"
	"time"
)

// Health is one cycle's telemetry snapshot as sent to the controller.
// Numeric fields cross the wire as strings; the controller side treats
// them as opaque display values.
type Health struct {
	IP               string `json:"ip"`
	Hostname         string `json:"hostname"`
	CPUUtilization   string `json:"cpu_utilization"`
	MemoryUsedMB     string `json:"memory_used_mb"`
	MemoryTotalMB    string `json:"memory_total_mb"`
	NetworkBytesIn   string `json:"network_bytes_in"`
	NetworkBytesOut  string `json:"network_bytes_out"`
	RemoteConnection bool   `json:"remote_connection"`
	PublicAddr       string `json:"public_addr,omitempty"`
}

// Directive is the controller's instruction carried in the health-check
// response. Anything other than a literal true means "do nothing".
type Directive struct {
	InitiateIncident bool `json:"initiate_incident"`
}

// Sample is one archived cycle for the local history CSV.
type Sample struct {
	Timestamp      time.Time
	IP             string
	Hostname       string
	CPUUtilization float64
	MemoryUsedMB   uint64
	MemoryTotalMB  uint64
	BytesIn        uint64
	BytesOut       uint64
	Reachable      bool
	Incident       bool
}

// UtilizationFromIdle derives utilization% from an idle% reading,
// clamped to [0, 100].
func UtilizationFromIdle(idle float64) float64 {
	util := 100.0 - idle
	if util < 0 {
		return 0
	}
	if util > 100 {
		return 100
	}
	return util
}

// FormatPercent renders a percentage with one fractional digit.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatCount renders an unsigned counter verbatim.
func FormatCount(v uint64) string {
	return strconv.FormatUint(v, 10)
}
