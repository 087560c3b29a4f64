package domain

// UnknownHostValue is reported for host facts the platform cannot provide.
const UnknownHostValue = "Unknown"

// TelemetrySnapshot is one complete sample of host telemetry. It is replaced
// wholesale on every sampling cycle, never mutated in place.
type TelemetrySnapshot struct {
	SystemName  string    `json:"system_name"`
	HostName    string    `json:"host_name"`
	TotalMemory uint64    `json:"total_memory"`
	UsedMemory  uint64    `json:"used_memory"`
	CPUCount    int       `json:"cpu_count"`
	CPUUsage    []float64 `json:"cpu_usage"`
	Updated     bool      `json:"updated"`
}

// NewTelemetrySnapshot returns the snapshot a process starts with, before the
// first sample has completed.
func NewTelemetrySnapshot() TelemetrySnapshot {
	return TelemetrySnapshot{
		SystemName: UnknownHostValue,
		HostName:   UnknownHostValue,
		CPUUsage:   []float64{},
	}
}

// Clone returns a deep copy, so the caller may hold it past any lock.
func (s TelemetrySnapshot) Clone() TelemetrySnapshot {
	usage := make([]float64, len(s.CPUUsage))
	copy(usage, s.CPUUsage)
	s.CPUUsage = usage
	return s
}
