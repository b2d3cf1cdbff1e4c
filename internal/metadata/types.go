package metadata

import (
	"context"
	"slices"
)

// QueryKind identifies a cache partition.
type QueryKind string

// Query kinds served by the cache.
const (
	KindInstanceType        QueryKind = "instance-type-info"
	KindSubnetAZ            QueryKind = "subnet-az"
	KindImage               QueryKind = "image-exists"
	KindSecurityGroupRules  QueryKind = "security-group-rules"
	KindCapacityReservation QueryKind = "capacity-reservation-info"
)

// Kinds returns every query kind in a stable order.
func Kinds() []QueryKind {
	return []QueryKind{
		KindInstanceType,
		KindSubnetAZ,
		KindImage,
		KindSecurityGroupRules,
		KindCapacityReservation,
	}
}

// Query addresses one cached value.
type Query struct {
	Kind QueryKind
	Key  string
}

// Architectures reported by instance type metadata.
const (
	ArchX86_64 = "x86_64"
	ArchARM64  = "arm64"
)

// InstanceTypeInfo holds the instance type capabilities needed by validators.
type InstanceTypeInfo struct {
	InstanceType             string
	Architectures            []string
	VCPUs                    int
	DefaultCores             int
	DefaultThreadsPerCore    int
	EfaSupported             bool
	MaxNetworkCards          int
	PlacementGroupStrategies []string
}

// Architecture returns the architecture a cluster node would run: x86_64 or
// arm64 when supported, otherwise the first reported one, or "" if unknown.
func (i InstanceTypeInfo) Architecture() string {
	for _, arch := range []string{ArchX86_64, ArchARM64} {
		if i.SupportsArchitecture(arch) {
			return arch
		}
	}
	if len(i.Architectures) == 0 {
		return ""
	}
	return i.Architectures[0]
}

// SupportsArchitecture reports whether the instance type runs arch.
func (i InstanceTypeInfo) SupportsArchitecture(arch string) bool {
	return slices.Contains(i.Architectures, arch)
}

// SupportsClusterPlacement reports whether the type can join a cluster placement group.
func (i InstanceTypeInfo) SupportsClusterPlacement() bool {
	return slices.Contains(i.PlacementGroupStrategies, "cluster")
}

// ThreadsPerCore returns the default threads per core, assuming 1 when unset.
func (i InstanceTypeInfo) ThreadsPerCore() int {
	if i.DefaultThreadsPerCore <= 0 {
		return 1
	}
	return i.DefaultThreadsPerCore
}

// ProtocolAll is the protocol value of a rule that allows all traffic.
const ProtocolAll = "-1"

// Rule is one ingress or egress permission of a security group.
type Rule struct {
	Protocol       string
	FromPort       int
	ToPort         int
	SourceGroupIDs []string
	CIDRs          []string
}

// AllowsAllTrafficWith reports whether the rule allows all protocols and
// ports to or from groupID.
func (r Rule) AllowsAllTrafficWith(groupID string) bool {
	return r.Protocol == ProtocolAll && slices.Contains(r.SourceGroupIDs, groupID)
}

// SecurityGroupRules holds the permissions of a security group.
type SecurityGroupRules struct {
	GroupID  string
	Inbound  []Rule
	Outbound []Rule
}

// SelfReferencingAllTraffic reports whether the group allows all traffic both
// inbound from and outbound to itself.
func (g SecurityGroupRules) SelfReferencingAllTraffic() bool {
	in := slices.ContainsFunc(g.Inbound, func(r Rule) bool { return r.AllowsAllTrafficWith(g.GroupID) })
	out := slices.ContainsFunc(g.Outbound, func(r Rule) bool { return r.AllowsAllTrafficWith(g.GroupID) })
	return in && out
}

// CapacityReservationInfo holds the targeting attributes of a reservation.
type CapacityReservationInfo struct {
	ID               string
	InstanceType     string
	AvailabilityZone string
	State            string
}

// Collaborator performs the read-only cloud queries behind the cache.
//
// Implementations wrap expected absence with NotFound and throttling or
// availability failures with Transient. Any other error aborts the run.
type Collaborator interface {
	DescribeInstanceType(ctx context.Context, instanceType string) (InstanceTypeInfo, error)
	GetSubnetAvailabilityZone(ctx context.Context, subnetID string) (string, error)
	ImageExists(ctx context.Context, imageID string) (bool, error)
	DescribeSecurityGroupRules(ctx context.Context, groupID string) (SecurityGroupRules, error)
	DescribeCapacityReservation(ctx context.Context, reservationID string) (CapacityReservationInfo, error)
}
