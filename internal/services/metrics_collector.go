package services

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

var (
	systemCPUPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_cpu_percent",
		Help: "Host CPU utilization percent",
	})
	systemMemoryPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_memory_percent",
		Help: "Host memory utilization percent",
	})
	systemDiskPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_disk_percent",
		Help: "Root filesystem utilization percent",
	})
)

// MetricsCollector samples host metrics and exports them as prometheus
// gauges for the admin dashboard
type MetricsCollector struct {
	collectInterval time.Duration
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		collectInterval: 30 * time.Second,
		stopChan:        make(chan struct{}),
	}
}

// Start begins the collection loop
func (c *MetricsCollector) Start() {
	log.Println("[MetricsCollector] Starting metrics collector...")

	// Collect immediately on start
	c.collect()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.collectInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopChan:
				log.Println("[MetricsCollector] Stopping metrics collector...")
				return
			}
		}
	}()
}

// Stop terminates the collection loop and waits for it to finish
func (c *MetricsCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}

func (c *MetricsCollector) collect() {
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		systemCPUPercent.Set(percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		systemMemoryPercent.Set(vm.UsedPercent)
	}
	if usage, err := disk.Usage("/"); err == nil {
		systemDiskPercent.Set(usage.UsedPercent)
	}
}
