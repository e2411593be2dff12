package mmap

import (
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MemoryMap represents a memory mapped register region
type MemoryMap struct {
	region []byte
}

// Map maps size bytes of path starting at base
func Map(path string, base int64, size int) (*MemoryMap, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	region, err := unix.Mmap(int(f.Fd()), base, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("failed to mmap %s at %#x: %w", path, base, err)
	}

	return &MemoryMap{region: region}, nil
}

// Close unmaps the memory region
func (m *MemoryMap) Close() error {
	if m.region == nil {
		return nil
	}
	err := unix.Munmap(m.region)
	m.region = nil
	return err
}

// Read32 reads a 32-bit register at offset
func (m *MemoryMap) Read32(offset uintptr) uint32 {
	return *(*uint32)(unsafe.Pointer(&m.region[offset]))
}

// Write32 writes a 32-bit register at offset
func (m *MemoryMap) Write32(offset uintptr, value uint32) {
	*(*uint32)(unsafe.Pointer(&m.region[offset])) = value
}

// DeviceTreeRanges is where the kernel exposes the SoC bus address ranges.
const DeviceTreeRanges = "/proc/device-tree/soc/ranges"

// PeripheralBase reads the ARM physical peripheral base from a device tree
// ranges file. Pi 1-3 store it in the second cell, Pi 4 in the third.
func PeripheralBase(rangesPath string) (int64, error) {
	data, err := os.ReadFile(rangesPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", rangesPath, err)
	}
	if len(data) < 8 {
		return 0, fmt.Errorf("short ranges file %s: %d bytes", rangesPath, len(data))
	}

	base := binary.BigEndian.Uint32(data[4:8])
	if base == 0 {
		if len(data) < 12 {
			return 0, fmt.Errorf("short ranges file %s: %d bytes", rangesPath, len(data))
		}
		base = binary.BigEndian.Uint32(data[8:12])
	}
	return int64(base), nil
}
