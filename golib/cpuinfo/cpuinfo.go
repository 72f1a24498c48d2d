// Package cpuinfo describes the processor the numeric code runs on.
package cpuinfo

import (
	"fmt"
	"sort"

	"github.com/klauspost/cpuid"
)

var vendorNames = map[cpuid.Vendor]string{
	cpuid.AMD:    "AMD",
	cpuid.Hygon:  "Hygon",
	cpuid.Intel:  "Intel",
	cpuid.KVM:    "KVM",
	cpuid.VIA:    "VIA",
	cpuid.VMware: "VMware",
	cpuid.XenHVM: "XenHVM",
}

// Device summarizes the current CPU.
type Device struct {
	Vendor       string   `json:"vendor"`
	Brand        string   `json:"brand"`
	LogicalCores int      `json:"threads"`
	AVX2         bool     `json:"avx2"`
	FMA3         bool     `json:"fma3"`
	Features     []string `json:"flags"`
}

// String implements fmt.Stringer
func (d Device) String() string {
	vendor := d.Vendor
	if vendor == "" {
		vendor = "unknown vendor"
	}
	brand := d.Brand
	if brand == "" {
		brand = "unknown cpu"
	}
	return fmt.Sprintf("cpu (%s %s, %d threads, avx2=%t, fma3=%t)", vendor, brand, d.LogicalCores, d.AVX2, d.FMA3)
}

// Get returns information about the machine's cpu
func Get() Device {
	cpu := cpuid.CPU
	flags := cpu.Features.Strings()
	sort.Strings(flags)

	return Device{
		Vendor:       vendorNames[cpu.VendorID],
		Brand:        cpu.BrandName,
		LogicalCores: cpu.LogicalCores,
		AVX2:         cpu.AVX2(),
		FMA3:         cpu.FMA3(),
		Features:     flags,
	}
}
