package domain

// HostInfo describes the machine being sampled. It is read once at startup.
type HostInfo struct {
	ID              string `json:"id"`
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	KernelVersion   string `json:"kernel_version"`
	Arch            string `json:"arch"`
	CPUModel        string `json:"cpu_model"`
	CPUCores        int    `json:"cpu_cores"`
	BootTime        uint64 `json:"boot_time"`
}
