package validators

import (
	"testing"

	"github.com/imamik/hpcgate/internal/metadata"
)

var (
	c5xl    = metadata.InstanceTypeInfo{InstanceType: "c5.xlarge", VCPUs: 4, DefaultCores: 2, MaxNetworkCards: 1}
	c52xl   = metadata.InstanceTypeInfo{InstanceType: "c5.2xlarge", VCPUs: 8, DefaultCores: 4, MaxNetworkCards: 1}
	m5xl    = metadata.InstanceTypeInfo{InstanceType: "m5.xlarge", VCPUs: 4, DefaultCores: 2, MaxNetworkCards: 1}
	c5n18xl = metadata.InstanceTypeInfo{InstanceType: "c5n.18xlarge", VCPUs: 72, DefaultCores: 36, EfaSupported: true, MaxNetworkCards: 1}
	p4d     = metadata.InstanceTypeInfo{InstanceType: "p4d.24xlarge", VCPUs: 96, DefaultCores: 48, EfaSupported: true, MaxNetworkCards: 4}
)

func TestInstanceTypeAndImage(t *testing.T) {
	t.Parallel()

	assertResults(t, TypeInstanceType, InstanceType("c5.xlarge", true))
	assertResults(t, TypeInstanceType, InstanceType("c9.huge", false), errorWith("The instance type 'c9.huge' is not supported."))
	assertResults(t, TypeImage, Image("ami-1", true))
	assertResults(t, TypeImage, Image("ami-1", false), errorWith("Image 'ami-1' does not exist"))
}

func TestEfa(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		info       metadata.InstanceTypeInfo
		enabled    bool
		gdrSupport bool
		want       []expectation
	}{
		{"supported and enabled", c5n18xl, true, true, nil},
		{"unsupported and disabled", c5xl, false, false, nil},
		{"unsupported but enabled", c5xl, true, false, []expectation{errorWith("does not support EFA")}},
		{"gdr without efa", c5xl, false, true, []expectation{errorWith("GDR Support can be used only if EFA is enabled")}},
		{"capable but disabled", c5n18xl, false, false, []expectation{
			warningWith("supports enhanced networking capabilities using Elastic Fabric Adapter"),
		}},
		{"capable, disabled, gdr", c5n18xl, false, true, []expectation{
			errorWith("GDR Support"),
			warningWith("c5n.18xlarge"),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assertResults(t, TypeEfa, Efa(tt.info, tt.enabled, tt.gdrSupport), tt.want...)
		})
	}
}

func TestInstancesCpu(t *testing.T) {
	t.Parallel()

	assertResults(t, TypeInstancesCpu, InstancesCpu("flex", false, []metadata.InstanceTypeInfo{c5xl, m5xl}))
	assertResults(t, TypeInstancesCpu, InstancesCpu("flex", false, []metadata.InstanceTypeInfo{c5xl, c52xl}),
		errorWith("Instance types listed under Compute Resource flex must have the same number of vCPUs (c5.2xlarge: 8, c5.xlarge: 4)."))
	assertResults(t, TypeInstancesCpu, InstancesCpu("flex", true, []metadata.InstanceTypeInfo{c5xl, c52xl}),
		errorWith("same number of CPU cores when Simultaneous Multithreading is disabled (c5.2xlarge: 4, c5.xlarge: 2)"))
}

func TestInstancesEfa(t *testing.T) {
	t.Parallel()

	assertResults(t, TypeInstancesEfa, InstancesEfa("flex", true, []metadata.InstanceTypeInfo{c5n18xl, p4d}))
	assertResults(t, TypeInstancesEfa, InstancesEfa("flex", false, []metadata.InstanceTypeInfo{c5xl, m5xl}))
	assertResults(t, TypeInstancesEfa, InstancesEfa("flex", true, []metadata.InstanceTypeInfo{c5xl, c5n18xl, m5xl}),
		errorWith("Instance type(s) (c5.xlarge,m5.xlarge) do not support EFA and cannot be launched when EFA is enabled in Compute Resource: flex."))
	assertResults(t, TypeInstancesEfa, InstancesEfa("flex", false, []metadata.InstanceTypeInfo{c5xl, c5n18xl}),
		warningWith("The EC2 instance type(s) selected (c5n.18xlarge) for the Compute Resource flex support enhanced networking"))
}

func TestInstancesNetworking(t *testing.T) {
	t.Parallel()

	assertResults(t, TypeInstancesNetworking, InstancesNetworking("q", "flex", false, nil))
	assertResults(t, TypeInstancesNetworking, InstancesNetworking("q", "flex", true, []metadata.InstanceTypeInfo{c5xl}))
	assertResults(t, TypeInstancesNetworking, InstancesNetworking("q", "flex", false, []metadata.InstanceTypeInfo{c5n18xl, p4d}),
		infoWith("Compute Resource flex has instance types with varying numbers of network cards (Min: 1, Max: 4). "+
			"Compute Resource will be created with 1 network cards."))
	assertResults(t, TypeInstancesNetworking, InstancesNetworking("q", "flex", true, []metadata.InstanceTypeInfo{c5xl, m5xl}),
		warningWith("Enabling placement groups for queue: q may result in Insufficient Capacity Errors"))
}

func TestDuplicateInstanceType(t *testing.T) {
	t.Parallel()

	assertResults(t, TypeDuplicateInstanceType, DuplicateInstanceType("q", []ComputeResourceTypes{
		{Name: "a", InstanceTypes: []string{"c5.xlarge"}},
		{Name: "b", InstanceTypes: []string{"c5.2xlarge", "m5.xlarge"}},
	}))
	assertResults(t, TypeDuplicateInstanceType, DuplicateInstanceType("q", []ComputeResourceTypes{
		{Name: "a", InstanceTypes: []string{"c5.xlarge"}},
		{Name: "b", InstanceTypes: []string{"c5.2xlarge", "c5.xlarge"}},
		{Name: "c", InstanceTypes: []string{"c5.xlarge"}},
	}), errorWith("Instance type 'c5.xlarge' is used by multiple compute resources of queue 'q': ['a', 'b', 'c']"))
}
