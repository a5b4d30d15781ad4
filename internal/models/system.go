// Package models defines the system report structures written into the
// diagnostics bundle as JSON documents.
package models

import "time"

// HostInfo describes the machine and operating system.
type HostInfo struct {
	Hostname        string    `json:"hostname"`
	OS              string    `json:"os"`
	Platform        string    `json:"platform"`
	PlatformVersion string    `json:"platform_version"`
	KernelVersion   string    `json:"kernel_version"`
	KernelArch      string    `json:"kernel_arch"`
	Virtualization  string    `json:"virtualization,omitempty"`
	BootTime        time.Time `json:"boot_time"`
	UptimeSeconds   uint64    `json:"uptime_seconds"`
}

// CPUInfo holds processor details and utilization.
type CPUInfo struct {
	Model         string    `json:"model"`
	LogicalCores  int       `json:"logical_cores"`
	PhysicalCores int       `json:"physical_cores"`
	Overall       float64   `json:"overall"`
	Cores         []float64 `json:"cores"`
}

// MemoryInfo holds RAM and swap usage in bytes.
type MemoryInfo struct {
	Total     uint64 `json:"total"`
	Used      uint64 `json:"used"`
	Available uint64 `json:"available"`
	SwapTotal uint64 `json:"swap_total"`
	SwapUsed  uint64 `json:"swap_used"`
}

// DiskInfo represents usage for a single disk/partition.
type DiskInfo struct {
	Mount       string  `json:"mount"`
	Fs          string  `json:"fs,omitempty"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
}

// PathUsage is the usage of the filesystem holding one server directory.
// Error is set instead of the figures when the directory cannot be read.
type PathUsage struct {
	Role        string  `json:"role"`
	Path        string  `json:"path"`
	Mount       string  `json:"mount,omitempty"`
	Fs          string  `json:"fs,omitempty"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
	LowSpace    bool    `json:"low_space,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// DiskReport is the disk section of the bundle.
type DiskReport struct {
	Mounts []DiskInfo  `json:"mounts"`
	Paths  []PathUsage `json:"paths,omitempty"`
}

// NetworkInfo holds cumulative counters for one interface.
type NetworkInfo struct {
	Interface string `json:"interface"`
	BytesRecv uint64 `json:"bytes_recv"`
	BytesSent uint64 `json:"bytes_sent"`
	ErrIn     uint64 `json:"err_in"`
	ErrOut    uint64 `json:"err_out"`
	DropIn    uint64 `json:"drop_in"`
	DropOut   uint64 `json:"drop_out"`
}

// ProcessInfo represents a single process's resource usage.
type ProcessInfo struct {
	PID     int32   `json:"pid"`
	PPID    int32   `json:"ppid"`
	Name    string  `json:"name"`
	User    string  `json:"user,omitempty"`
	CPU     float64 `json:"cpu"`
	Memory  float64 `json:"memory"`
	RSS     uint64  `json:"rss"`
	Threads int32   `json:"threads"`
	Status  string  `json:"status"`
}

// RLimit is one resource limit of the reporting process.
type RLimit struct {
	Resource string `json:"resource"`
	Soft     string `json:"soft"`
	Hard     string `json:"hard"`
}

// GPUInfo identifies one graphics card.
type GPUInfo struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}
