package observability

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// MeshStats is the JSON snapshot served to renderers.
type MeshStats struct {
	MessagesSent     uint64  `json:"messages_sent"`
	MessagesReceived uint64  `json:"messages_received"`
	SystemEntries    uint64  `json:"system_entries"`
	PayloadsDropped  uint64  `json:"payloads_dropped"`
	SendFailures     uint64  `json:"send_failures"`
	WorkerRestarts   uint64  `json:"worker_restarts"`
	ConnectedPeers   int64   `json:"connected_peers"`
	AllocMemMb       uint64  `json:"alloc_mem_mb"`
	NumGC            uint32  `json:"num_gc"`
	RssBytes         uint64  `json:"rss_bytes"`
	CpuPercent       float64 `json:"cpu_percent"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

// MonitoringManager aggregates counters fed by the metrics sink and the heartbeat worker.
type MonitoringManager struct {
	log       *slog.Logger
	startedAt time.Time

	messagesSent     atomic.Uint64
	messagesReceived atomic.Uint64
	systemEntries    atomic.Uint64
	payloadsDropped  atomic.Uint64
	sendFailures     atomic.Uint64
	workerRestarts   atomic.Uint64
	connectedPeers   atomic.Int64

	mu         sync.RWMutex
	rssBytes   uint64
	cpuPercent float64
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log, startedAt: time.Now()}
}

func (mm *MonitoringManager) IncrMessagesSent()     { mm.messagesSent.Add(1) }
func (mm *MonitoringManager) IncrMessagesReceived() { mm.messagesReceived.Add(1) }
func (mm *MonitoringManager) IncrSystemEntries()    { mm.systemEntries.Add(1) }
func (mm *MonitoringManager) IncrPayloadsDropped()  { mm.payloadsDropped.Add(1) }
func (mm *MonitoringManager) IncrSendFailures()     { mm.sendFailures.Add(1) }
func (mm *MonitoringManager) IncrWorkerRestarts()   { mm.workerRestarts.Add(1) }

// SetConnectedPeers records the registry's current count of Connected peers.
func (mm *MonitoringManager) SetConnectedPeers(n int) { mm.connectedPeers.Store(int64(n)) }

// SetProcessStats records the last sample of the heartbeat worker.
func (mm *MonitoringManager) SetProcessStats(rss uint64, cpu float64) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.rssBytes = rss
	mm.cpuPercent = cpu
}

func (mm *MonitoringManager) GetLatest() MeshStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mm.mu.RLock()
	rss, cpu := mm.rssBytes, mm.cpuPercent
	mm.mu.RUnlock()

	return MeshStats{
		MessagesSent:     mm.messagesSent.Load(),
		MessagesReceived: mm.messagesReceived.Load(),
		SystemEntries:    mm.systemEntries.Load(),
		PayloadsDropped:  mm.payloadsDropped.Load(),
		SendFailures:     mm.sendFailures.Load(),
		WorkerRestarts:   mm.workerRestarts.Load(),
		ConnectedPeers:   mm.connectedPeers.Load(),
		AllocMemMb:       m.Alloc / 1024 / 1024,
		NumGC:            m.NumGC,
		RssBytes:         rss,
		CpuPercent:       cpu,
		UptimeSeconds:    time.Since(mm.startedAt).Seconds(),
	}
}
