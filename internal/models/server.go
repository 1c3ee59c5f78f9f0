package models

import "time"

type RunState string

const (
	// No child process exists.
	StateStopped RunState = "stopped"
	// Child spawned, waiting for the readiness markers in its output.
	StateStarting RunState = "starting"
	// Readiness markers observed, server accepts players and console commands.
	StateRunning RunState = "running"
	// Shutdown in progress (stop command sent / escalation running).
	StateStopping RunState = "stopping"
)

// ResourceSnapshot carries OS-level statistics for the supervised child.
// A zeroed snapshot means "not running".
type ResourceSnapshot struct {
	Running       bool    `json:"running"`
	Pid           int     `json:"pid"`
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryBytes   uint64  `json:"memoryBytes"`
	MemoryPercent float64 `json:"memoryPercent"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
}

// TunnelEndpoints records public addresses scraped from tunnel agent output.
// Purely advisory: never validated against the actual network state.
type TunnelEndpoints struct {
	Service    string    `json:"service"`
	URLs       []string  `json:"urls"`
	IPs        []string  `json:"ips"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

// StatusResponse is the read-only status snapshot returned by the status
// query surface (CLI status command and the daemon API).
type StatusResponse struct {
	State       RunState          `json:"state"`
	Version     string            `json:"minecraftVersion"`
	Dist        string            `json:"distribution"`
	ServerDir   string            `json:"serverDir"`
	LocalIP     string            `json:"localIP"`
	Port        int               `json:"port"`
	Resources   ResourceSnapshot  `json:"resources"`
	Tunnels     []TunnelEndpoints `json:"tunnels"`
	StartedTime time.Time         `json:"startedTime,omitempty"`
}

type CommandRequest struct {
	Command string `json:"command"`
}

// ErrorResponse defines API error response format
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OperationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
