package api

import (
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

type hostHealth struct {
	Hostname      string  `json:"hostname"`
	UptimeSec     uint64  `json:"uptime_sec"`
	CPUPercent    float64 `json:"cpu_percent"`
	Load1         float64 `json:"load1"`
	MemoryTotal   uint64  `json:"memory_total"`
	MemoryUsed    uint64  `json:"memory_used"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
}

type healthResponse struct {
	Status        string     `json:"status"`
	UptimeSec     int64      `json:"uptime_sec"`
	MQTTConnected bool       `json:"mqtt_connected"`
	Topics        int        `json:"topics"`
	Host          hostHealth `json:"host"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		UptimeSec:     int64(time.Since(s.started).Seconds()),
		MQTTConnected: s.transport != nil && s.transport.Connected(),
		Topics:        len(s.store.Snapshot()),
		Host:          collectHostHealth(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func collectHostHealth() hostHealth {
	var hh hostHealth

	if h, err := host.Info(); err == nil {
		hh.Hostname = h.Hostname
		hh.UptimeSec = h.Uptime
	}
	if p, err := cpu.Percent(0, false); err == nil && len(p) > 0 {
		hh.CPUPercent = p[0]
	}
	if l, err := load.Avg(); err == nil {
		hh.Load1 = l.Load1
	}
	if v, err := mem.VirtualMemory(); err == nil {
		hh.MemoryTotal = v.Total
		hh.MemoryUsed = v.Used
		hh.MemoryPercent = v.UsedPercent
	}
	if d, err := disk.Usage("/"); err == nil {
		hh.DiskPercent = d.UsedPercent
	}

	return hh
}
