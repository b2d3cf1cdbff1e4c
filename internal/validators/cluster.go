package validators

import (
	"slices"
	"strings"

	"github.com/imamik/hpcgate/internal/metadata"
	"github.com/imamik/hpcgate/internal/util/naming"
)

// Count limits.
const (
	MaxQueues                          = 10
	MaxComputeResourcesPerQueue        = 5
	MaxInstanceTypesPerComputeResource = 20
)

// osByArchitecture lists the operating systems available per architecture.
var osByArchitecture = map[string][]string{
	metadata.ArchX86_64: {"alinux2", "alinux2023", "centos7", "centos8", "rhel8", "ubuntu1804", "ubuntu2004", "ubuntu2204"},
	metadata.ArchARM64:  {"alinux2", "alinux2023", "centos8", "rhel8", "ubuntu1804", "ubuntu2004", "ubuntu2204"},
}

// efaUnsupportedOs lists operating systems without EFA support per architecture.
var efaUnsupportedOs = map[string][]string{
	metadata.ArchX86_64: {},
	metadata.ArchARM64:  {"centos8"},
}

// SupportedOsForArchitecture returns the operating systems available on arch.
func SupportedOsForArchitecture(arch string) []string {
	return slices.Clone(osByArchitecture[arch])
}

// ComputeResourceSize checks the scaling bounds of a compute resource.
func ComputeResourceSize(minCount, maxCount int) []Result {
	c := newCollector(TypeComputeResourceSize)
	if maxCount < minCount {
		c.errorf("Max count must be greater than or equal to min count")
	}
	if maxCount <= 0 {
		c.errorf("Max count must be greater than 0")
	}
	return c.results
}

// MaxCount checks that a list of resources does not exceed its limit.
// resource names the list in the message, e.g. "SlurmQueues".
func MaxCount(resource string, count, limit int) []Result {
	c := newCollector(TypeMaxCount)
	if count > limit {
		c.errorf("Invalid number of %s (%d) specified. Currently only supports up to %d %s.", resource, count, limit, resource)
	}
	return c.results
}

// ArchitectureOs checks that the operating system is available on arch.
func ArchitectureOs(os, arch string) []Result {
	c := newCollector(TypeArchitectureOs)
	allowed := osByArchitecture[arch]
	if !slices.Contains(allowed, os) {
		c.errorf("The architecture %s is only supported for the following operating systems: %s", arch, naming.QuoteList(allowed))
	}
	return c.results
}

// SchedulerOs checks scheduler and operating system compatibility.
func SchedulerOs(scheduler, os string) []Result {
	c := newCollector(TypeSchedulerOs)
	if scheduler == "awsbatch" && os != "alinux2" {
		c.errorf("awsbatch scheduler supports the following operating systems: %s", naming.QuoteList([]string{"alinux2"}))
	}
	return c.results
}

// InstanceArchitectureCompatibility checks that a compute instance type can
// run the architecture of the head node.
func InstanceArchitectureCompatibility(instanceType string, computeArchitectures []string, headNodeArchitecture string) []Result {
	c := newCollector(TypeInstanceArchitectureCompatibility)
	if !slices.Contains(computeArchitectures, headNodeArchitecture) {
		c.errorf("The specified compute instance type (%s) supports the architectures %s, none of which are "+
			"compatible with the architecture supported by the head node instance type (%s).",
			instanceType, naming.QuoteList(computeArchitectures), headNodeArchitecture)
	}
	return c.results
}

// DisableSmtArchitecture checks that multithreading is only disabled on x86_64.
func DisableSmtArchitecture(disableSMT bool, arch string) []Result {
	c := newCollector(TypeDisableSmtArchitecture)
	supported := []string{metadata.ArchX86_64}
	if disableSMT && !slices.Contains(supported, arch) {
		c.errorf("Simultaneous Multithreading is only supported on instance types that support these architectures: %s",
			strings.Join(supported, ", "))
	}
	return c.results
}

// EfaOsArchitecture checks that EFA is available for the os and arch pair.
func EfaOsArchitecture(efaEnabled bool, os, arch string) []Result {
	c := newCollector(TypeEfaOsArchitecture)
	if efaEnabled && slices.Contains(efaUnsupportedOs[arch], os) {
		c.errorf("EFA currently not supported on %s for %s architecture", os, arch)
	}
	return c.results
}
