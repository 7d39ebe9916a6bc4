package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"village-chat/contract"
	"village-chat/observability"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*HeartbeatWorker)(nil)

// HeartbeatWorker samples the node's own memory and CPU at a fixed interval.
type HeartbeatWorker struct {
	log        *slog.Logger
	monitoring *observability.MonitoringManager
	metrics    *observability.Metrics
	interval   time.Duration
	onTick     []func()
}

func NewHeartbeatWorker(log *slog.Logger, monitoring *observability.MonitoringManager,
	metrics *observability.Metrics, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, monitoring: monitoring, metrics: metrics, interval: interval}
}

// OnTick registers fn to run at every heartbeat, after the process sample.
func (w *HeartbeatWorker) OnTick(fn func()) *HeartbeatWorker {
	w.onTick = append(w.onTick, fn)
	return w
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.sample(p)
			for _, fn := range w.onTick {
				fn()
			}
		}
	}
}

func (w *HeartbeatWorker) sample(p *process.Process) {
	rss, cpu, err := selfStats(p)
	if err != nil {
		w.log.Error("Failed to collect self stats", "err", err)
		return
	}
	w.monitoring.SetProcessStats(rss, cpu)
	if w.metrics != nil {
		w.metrics.ProcessRSS.Set(float64(rss))
		w.metrics.ProcessCPU.Set(cpu)
	}
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
