//go:build linux

package lanedetect

import (
	"testing"
)

func TestParseCores(t *testing.T) {

	tests := []struct {
		list     string
		expected uintptr
		wantErr  bool
	}{
		{"4,5,6,7", 0b11110000, false},
		{"0", 0b1, false},
		{" 1, 3 ", 0b1010, false},
		{"", 0, true},
		{"a,b", 0, true},
		{"-1", 0, true},
	}

	for _, tc := range tests {
		mask, err := ParseCores(tc.list)

		if tc.wantErr {
			if err == nil {
				t.Errorf("expected error for %q", tc.list)
			}
			continue
		}

		if err != nil {
			t.Errorf("unexpected error for %q: %v", tc.list, err)
			continue
		}

		if mask != tc.expected {
			t.Errorf("cores %q: expected mask %b, got %b", tc.list, tc.expected, mask)
		}
	}
}

func TestCPUCoreMask(t *testing.T) {
	if got := CPUCoreMask([]int{0, 2}); got != 0b101 {
		t.Errorf("expected mask 101, got %b", got)
	}
}
