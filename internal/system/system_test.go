package system

import (
	"strings"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSnapshotFormat(t *testing.T) {
	snap := Snapshot{
		Hostname: "testhost",
		OS:       "linux",
		Arch:     "amd64",
		CPUUsage: 12.5,
		MemTotal: 8 * 1024 * 1024 * 1024,
		MemUsed:  2 * 1024 * 1024 * 1024,
		MemUsage: 25.0,
	}

	out := snap.Format()
	if !strings.Contains(out, "testhost") {
		t.Errorf("missing hostname in %q", out)
	}
	if !strings.Contains(out, "12.5%") {
		t.Errorf("missing cpu usage in %q", out)
	}
	if !strings.Contains(out, "2.0 GB / 8.0 GB") {
		t.Errorf("missing memory line in %q", out)
	}
}
