package meter

import (
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// gopsutilSampler reports CPU usage since the previous call and the current
// virtual memory usage.
func gopsutilSampler() (float64, float64, error) {
	cpuPercentages, err := cpu.Percent(0, false)
	if err != nil {
		return 0, 0, err
	}
	memStats, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, err
	}
	cpuPct := 0.0
	if len(cpuPercentages) > 0 {
		cpuPct = cpuPercentages[0]
	}
	return cpuPct, memStats.UsedPercent, nil
}
