package probe

import (
	"context"

	"github.com/shirou/gopsutil/v4/disk"
)

const kilobytesPerGigabyte = 1024 * 1024

// gigabytesFromKilobytes converts kilobytes to whole gigabytes, flooring.
// A host with 2047 MiB free reports 1 GB, never 2.
func gigabytesFromKilobytes(kb uint64) int {
	return int(kb / kilobytesPerGigabyte)
}

// detectDisk fills in available disk space for the probed mount.
// Unreadable disk state is not fatal: the disk-space gate step skips
// itself when DiskKnown is false.
func (p *RealProber) detectDisk(ctx context.Context, caps *HostCapabilities) {
	usage, err := disk.UsageWithContext(ctx, p.diskRoot)
	if err != nil {
		caps.DiskKnown = false
		return
	}

	caps.AvailableDiskGB = gigabytesFromKilobytes(usage.Free / 1024)
	caps.DiskKnown = true
}
