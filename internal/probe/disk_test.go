package probe

import "testing"

func TestGigabytesFromKilobytesFloors(t *testing.T) {
	tests := []struct {
		name string
		kb   uint64
		want int
	}{
		{"zero", 0, 0},
		{"just_under_one_gb", 2047 * 1024, 1}, // 2047 MiB floors to 1 GB
		{"exactly_one_gb", 1024 * 1024, 1},
		{"just_under_two_gb", 2*1024*1024 - 1, 1},
		{"exactly_two_gb", 2 * 1024 * 1024, 2},
		{"large", 500 * 1024 * 1024, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gigabytesFromKilobytes(tt.kb); got != tt.want {
				t.Errorf("gigabytesFromKilobytes(%d) = %d, want %d", tt.kb, got, tt.want)
			}
		})
	}
}

func TestHasDiskAtLeast(t *testing.T) {
	known := &HostCapabilities{AvailableDiskGB: 5, DiskKnown: true}
	if !known.HasDiskAtLeast(5) {
		t.Error("HasDiskAtLeast(5) = false with 5 GB known")
	}
	if known.HasDiskAtLeast(6) {
		t.Error("HasDiskAtLeast(6) = true with only 5 GB")
	}

	unknown := &HostCapabilities{AvailableDiskGB: 100, DiskKnown: false}
	if unknown.HasDiskAtLeast(1) {
		t.Error("HasDiskAtLeast reported true with unknown disk state")
	}
}
