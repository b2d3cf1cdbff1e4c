package validators

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/imamik/hpcgate/internal/metadata"
	"github.com/imamik/hpcgate/internal/util/naming"
)

const efaDocsURL = "https://docs.aws.amazon.com/parallelcluster/latest/ug/efa-v3.html"

// InstanceType reports an instance type that does not exist in the region.
func InstanceType(instanceType string, exists bool) []Result {
	c := newCollector(TypeInstanceType)
	if !exists {
		c.errorf("The instance type '%s' is not supported.", instanceType)
	}
	return c.results
}

// Image reports a custom image that does not exist or is not accessible.
func Image(imageID string, exists bool) []Result {
	c := newCollector(TypeImage)
	if !exists {
		c.errorf("Image '%s' does not exist or is not accessible.", imageID)
	}
	return c.results
}

// Efa checks the EFA settings of a compute resource with a single instance type.
func Efa(info metadata.InstanceTypeInfo, efaEnabled, gdrSupport bool) []Result {
	c := newCollector(TypeEfa)
	if efaEnabled && !info.EfaSupported {
		c.errorf("Instance type '%s' does not support EFA.", info.InstanceType)
	}
	if gdrSupport && !efaEnabled {
		c.errorf("The EFA GDR Support can be used only if EFA is enabled.")
	}
	if !efaEnabled && info.EfaSupported {
		c.warningf("The EC2 instance selected (%s) supports enhanced networking capabilities using Elastic Fabric "+
			"Adapter (EFA). EFA enables you to run applications requiring high levels of inter-node communications at "+
			"scale on AWS at no additional charge. You can update the cluster's configuration to enable EFA (%s).",
			info.InstanceType, efaDocsURL)
	}
	return c.results
}

// InstancesCpu checks that the instance types of a flexible compute resource
// have the same usable CPU count: cores when multithreading is disabled,
// vCPUs otherwise.
func InstancesCpu(computeResource string, disableSMT bool, infos []metadata.InstanceTypeInfo) []Result {
	c := newCollector(TypeInstancesCpu)
	counts := make(map[string]int, len(infos))
	for _, info := range infos {
		if disableSMT {
			counts[info.InstanceType] = info.DefaultCores
		} else {
			counts[info.InstanceType] = info.VCPUs
		}
	}
	if !heterogeneous(counts) {
		return nil
	}
	if disableSMT {
		c.errorf("Instance types listed under Compute Resource %s must have the same number of CPU cores when "+
			"Simultaneous Multithreading is disabled (%s).", computeResource, formatCounts(counts))
	} else {
		c.errorf("Instance types listed under Compute Resource %s must have the same number of vCPUs (%s).",
			computeResource, formatCounts(counts))
	}
	return c.results
}

// InstancesEfa checks the EFA support of the instance types of a flexible
// compute resource.
func InstancesEfa(computeResource string, efaEnabled bool, infos []metadata.InstanceTypeInfo) []Result {
	c := newCollector(TypeInstancesEfa)
	var with, without []string
	for _, info := range infos {
		if info.EfaSupported {
			with = append(with, info.InstanceType)
		} else {
			without = append(without, info.InstanceType)
		}
	}
	sort.Strings(with)
	sort.Strings(without)

	if efaEnabled && len(without) > 0 {
		c.errorf("Instance type(s) (%s) do not support EFA and cannot be launched when EFA is enabled in "+
			"Compute Resource: %s.", strings.Join(without, ","), computeResource)
	}
	if !efaEnabled && len(with) > 0 {
		c.warningf("The EC2 instance type(s) selected (%s) for the Compute Resource %s support enhanced networking "+
			"capabilities using Elastic Fabric Adapter (EFA). EFA enables you to run applications requiring high "+
			"levels of inter-node communications at scale on AWS at no additional charge. You can update the "+
			"cluster's configuration to enable EFA (%s).", strings.Join(with, ","), computeResource, efaDocsURL)
	}
	return c.results
}

// InstancesNetworking checks network card counts and placement group use of
// a flexible compute resource.
func InstancesNetworking(queue, computeResource string, placementGroupEnabled bool, infos []metadata.InstanceTypeInfo) []Result {
	c := newCollector(TypeInstancesNetworking)
	if len(infos) == 0 {
		return nil
	}
	lowest, highest := infos[0].MaxNetworkCards, infos[0].MaxNetworkCards
	for _, info := range infos[1:] {
		lowest = min(lowest, info.MaxNetworkCards)
		highest = max(highest, info.MaxNetworkCards)
	}
	if lowest < highest {
		c.infof("Compute Resource %s has instance types with varying numbers of network cards (Min: %d, Max: %d). "+
			"Compute Resource will be created with %d network cards.", computeResource, lowest, highest, lowest)
	}
	if placementGroupEnabled && len(infos) > 1 {
		c.warningf("Enabling placement groups for queue: %s may result in Insufficient Capacity Errors due to the "+
			"use of multiple instance types for Compute Resource: %s "+
			"(https://docs.aws.amazon.com/AWSEC2/latest/UserGuide/placement-groups.html#placement-groups-cluster).",
			queue, computeResource)
	}
	return c.results
}

// ComputeResourceTypes names the instance types of one compute resource.
type ComputeResourceTypes struct {
	Name          string
	InstanceTypes []string
}

// DuplicateInstanceType reports instance types used by more than one
// compute resource of a queue.
func DuplicateInstanceType(queue string, resources []ComputeResourceTypes) []Result {
	c := newCollector(TypeDuplicateInstanceType)
	owners := make(map[string][]string)
	var order []string
	for _, r := range resources {
		for _, it := range r.InstanceTypes {
			if _, seen := owners[it]; !seen {
				order = append(order, it)
			}
			if !slices.Contains(owners[it], r.Name) {
				owners[it] = append(owners[it], r.Name)
			}
		}
	}
	for _, it := range order {
		if names := owners[it]; len(names) > 1 {
			c.errorf("Instance type '%s' is used by multiple compute resources of queue '%s': %s. "+
				"Each instance type can be used by only one compute resource in a queue.", it, queue, naming.QuoteList(names))
		}
	}
	return c.results
}

func heterogeneous(values map[string]int) bool {
	first, set := 0, false
	for _, v := range values {
		if !set {
			first, set = v, true
			continue
		}
		if v != first {
			return true
		}
	}
	return false
}

func formatCounts(values map[string]int) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %d", k, values[k])
	}
	return strings.Join(parts, ", ")
}
