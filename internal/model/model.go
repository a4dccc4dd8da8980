package model

// StatusSnapshot is one poll of the gateway status endpoint. It is replaced
// wholesale on every poll and never mutated after decoding.
type StatusSnapshot struct {
	Interface string
	Port      string
	PublicIP  string
	Peers     []PeerSnapshot
}

// PeerSnapshot is a single WireGuard peer as reported by the gateway.
type PeerSnapshot struct {
	Key      string
	Endpoint string // empty when the peer has no endpoint
	// Handshake is the age of the last handshake in seconds, nil when unknown.
	Handshake *float64
	RX        float64 // cumulative bytes, NaN when malformed
	TX        float64 // cumulative bytes, NaN when malformed
}

// Level is the severity of a timeline event.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event is a timeline entry, either pushed by the gateway or derived locally.
type Event struct {
	TS    string `json:"ts"`
	Level Level  `json:"level"`
	Type  string `json:"type"`
	Msg   string `json:"msg"`
}

// HostHealth is the gateway host section of the health endpoint.
// Fields are NaN when the gateway did not report them.
type HostHealth struct {
	CPUPercent  float64
	Load1       float64
	Load5       float64
	Load15      float64
	MemUsedMB   float64
	MemTotalMB  float64
	DiskUsedGB  float64
	DiskTotalGB float64
}

// DaemonHealth is the container state of the VPN daemon.
type DaemonHealth struct {
	Status       string
	Health       string
	RestartCount *int64
}

// Health is one poll of the gateway health endpoint.
type Health struct {
	Host   HostHealth
	Daemon DaemonHealth
}
