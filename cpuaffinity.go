//go:build linux

package lanedetect

import (
	"fmt"
	"strconv"
	"strings"
	"syscall"
	"unsafe"
)

// SetCPUAffinity sets the CPU Affinity mask of the program to run on the specified
// cores
func SetCPUAffinity(mask uintptr) error {

	_, _, err := syscall.RawSyscall(syscall.SYS_SCHED_SETAFFINITY, 0,
		unsafe.Sizeof(mask), uintptr(unsafe.Pointer(&mask)))

	if err != 0 {
		return fmt.Errorf("failed to set CPU affinity: %w", err)
	}

	return nil
}

// GetCPUAffinity gets the current CPU Affinity mask the program is running on
func GetCPUAffinity() (uintptr, error) {

	var mask uintptr

	_, _, err := syscall.RawSyscall(syscall.SYS_SCHED_GETAFFINITY, 0,
		unsafe.Sizeof(mask), uintptr(unsafe.Pointer(&mask)))

	if err != 0 {
		return 0, fmt.Errorf("failed to get CPU affinity: %w", err)
	}

	return mask, nil
}

// CPUCoreMask calculates the core mask by passing in the CPU core numbers as a
// slice, eg: []int{4,5,6,7}
func CPUCoreMask(cores []int) uintptr {

	var mask uintptr

	for _, core := range cores {
		mask |= 1 << core
	}

	return mask
}

// ParseCores parses a comma delimited list of CPU core numbers, eg: "4,5,6,7"
// and returns the core mask for them
func ParseCores(list string) (uintptr, error) {

	var cores []int
	maxCore := int(unsafe.Sizeof(uintptr(0)) * 8)

	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)

		if field == "" {
			continue
		}

		core, err := strconv.Atoi(field)

		if err != nil || core < 0 || core >= maxCore {
			return 0, fmt.Errorf("invalid cpu core %q", field)
		}

		cores = append(cores, core)
	}

	if len(cores) == 0 {
		return 0, fmt.Errorf("no cpu cores given")
	}

	return CPUCoreMask(cores), nil
}
