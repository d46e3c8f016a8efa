package model

// HealthStatus is the local backend's availability as seen by the monitor.
type HealthStatus string

const (
	HealthChecking HealthStatus = "checking"
	HealthOnline   HealthStatus = "online"
	HealthOffline  HealthStatus = "offline"
)
