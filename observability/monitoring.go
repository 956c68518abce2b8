package observability

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// PendingCounter reports how many timers are scheduled.
type PendingCounter interface {
	Pending() int
}

// DestructionCounter reports how many destructions were observed.
type DestructionCounter interface {
	Count() int
}

// MonitoringStats is a snapshot shown on the debug page.
type MonitoringStats struct {
	SenderTimers   int       `json:"sender_timers"`
	ReceiverTimers int       `json:"receiver_timers"`
	Destructions   int       `json:"destructions"`
	AllocMemMb     uint64    `json:"alloc_mem_mb"`
	NumGC          uint32    `json:"num_gc"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MonitoringManager samples the destruction pipeline at a fixed interval.
type MonitoringManager struct {
	log          *slog.Logger
	interval     time.Duration
	sender       PendingCounter
	receiver     PendingCounter
	destructions DestructionCounter

	mu          sync.RWMutex
	latestStats MonitoringStats
}

func NewMonitoringManager(log *slog.Logger, interval time.Duration, sender, receiver PendingCounter, destructions DestructionCounter) *MonitoringManager {
	if interval <= 0 {
		interval = time.Second
	}
	return &MonitoringManager{
		log:          log,
		interval:     interval,
		sender:       sender,
		receiver:     receiver,
		destructions: destructions,
	}
}

func (mm *MonitoringManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(mm.interval)
	defer ticker.Stop()

	mm.updateStats()
	for {
		select {
		case <-ctx.Done():
			mm.log.Debug("Monitoring manager stopped")
			return nil
		case <-ticker.C:
			mm.updateStats()
		}
	}
}

func (mm *MonitoringManager) updateStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := MonitoringStats{
		SenderTimers:   mm.sender.Pending(),
		ReceiverTimers: mm.receiver.Pending(),
		Destructions:   mm.destructions.Count(),
		AllocMemMb:     m.Alloc / 1024 / 1024,
		NumGC:          m.NumGC,
		UpdatedAt:      time.Now(),
	}

	mm.mu.Lock()
	mm.latestStats = stats
	mm.mu.Unlock()

	mm.log.Debug("Stats updated",
		"sender_timers", stats.SenderTimers,
		"receiver_timers", stats.ReceiverTimers,
		"destructions", stats.Destructions,
		"mem_mb", stats.AllocMemMb,
	)
}

func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latestStats
}

// Stats is the flat view used by the BadgerDB inspector page.
func (mm *MonitoringManager) Stats() map[string]any {
	latest := mm.GetLatest()
	return map[string]any{
		"sender_timers":   latest.SenderTimers,
		"receiver_timers": latest.ReceiverTimers,
		"destructions":    latest.Destructions,
		"alloc_mem_mb":    latest.AllocMemMb,
		"num_gc":          latest.NumGC,
	}
}
