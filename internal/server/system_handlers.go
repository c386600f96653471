package server

import (
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/oakmont/vantage/internal/database"
)

type databaseStatus struct {
	Name      string  `json:"name"`
	Profile   string  `json:"profile"`
	SizeMB    float64 `json:"size_mb"`
	WALSizeMB float64 `json:"wal_size_mb"`
	PageCount int64   `json:"page_count"`
	FreePages int64   `json:"free_pages"`
	Healthy   bool    `json:"healthy"`
}

type systemStatusResponse struct {
	Status        string           `json:"status"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	DemoMode      bool             `json:"demo_mode"`
	CPUPercent    float64          `json:"cpu_percent"`
	MemoryPercent float64          `json:"memory_percent"`
	DiskUsedPct   float64          `json:"disk_used_pct"`
	Databases     []databaseStatus `json:"databases"`
	Cache         cacheStatus      `json:"cache"`
}

type cacheStatus struct {
	Entries    int     `json:"entries"`
	Hits       uint64  `json:"hits"`
	Misses     uint64  `json:"misses"`
	HitRatePct float64 `json:"hit_rate_pct"`
}

// handleSystemStatus reports process and storage health.
// GET /api/system/status
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	resp := systemStatusResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		DemoMode:      s.cfg.DemoMode,
	}

	// 100ms sample keeps the endpoint fast for pollers.
	if cpuPct, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(cpuPct) > 0 {
		resp.CPUPercent = cpuPct[0]
	}
	if memStat, err := mem.VirtualMemory(); err == nil {
		resp.MemoryPercent = memStat.UsedPercent
	}
	if diskStat, err := disk.Usage(s.cfg.DataDir); err == nil {
		resp.DiskUsedPct = diskStat.UsedPercent
	}

	for _, db := range []*database.DB{s.ledgerDB, s.cacheDB} {
		resp.Databases = append(resp.Databases, s.databaseStatus(r, db))
	}

	hits, misses := s.memCache.HitRate()
	resp.Cache = cacheStatus{
		Entries: s.memCache.Len(),
		Hits:    hits,
		Misses:  misses,
	}
	if total := hits + misses; total > 0 {
		resp.Cache.HitRatePct = float64(hits) / float64(total) * 100
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) databaseStatus(r *http.Request, db *database.DB) databaseStatus {
	status := databaseStatus{
		Name:    db.Name(),
		Profile: string(db.Profile()),
		Healthy: db.HealthCheck(r.Context()) == nil,
	}
	if stats, err := db.GetStats(); err == nil {
		status.SizeMB = float64(stats.SizeBytes) / 1024 / 1024
		status.WALSizeMB = float64(stats.WALSizeBytes) / 1024 / 1024
		status.PageCount = stats.PageCount
		status.FreePages = stats.FreelistCount
	} else {
		s.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to read database stats")
	}
	return status
}
