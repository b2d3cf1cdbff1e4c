package testing

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/imamik/hpcgate/internal/metadata"
)

// FakeCollaborator is an in-memory metadata.Collaborator. Unknown keys are
// reported as not found. Calls are counted per query kind so tests can
// assert on coalescing.
type FakeCollaborator struct {
	mu             sync.RWMutex
	InstanceTypes  map[string]metadata.InstanceTypeInfo
	Subnets        map[string]string
	Images         map[string]bool
	SecurityGroups map[string]metadata.SecurityGroupRules
	Reservations   map[string]metadata.CapacityReservationInfo

	// Errors forces a lookup to fail, keyed by kind and key.
	Errors map[metadata.Query]error

	// Delay is applied to every call before answering.
	Delay time.Duration

	calls map[metadata.QueryKind]*atomic.Int64
}

// NewFakeCollaborator creates an empty fake.
func NewFakeCollaborator() *FakeCollaborator {
	f := &FakeCollaborator{
		InstanceTypes:  map[string]metadata.InstanceTypeInfo{},
		Subnets:        map[string]string{},
		Images:         map[string]bool{},
		SecurityGroups: map[string]metadata.SecurityGroupRules{},
		Reservations:   map[string]metadata.CapacityReservationInfo{},
		Errors:         map[metadata.Query]error{},
		calls:          map[metadata.QueryKind]*atomic.Int64{},
	}
	for _, k := range metadata.Kinds() {
		f.calls[k] = &atomic.Int64{}
	}
	return f
}

// NewStandardFake creates a fake populated with the instance types, subnets,
// security groups and reservations referenced by NewDocumentBuilder and
// common test scenarios.
func NewStandardFake() *FakeCollaborator {
	f := NewFakeCollaborator()

	x86 := []string{metadata.ArchX86_64}
	arm := []string{metadata.ArchARM64}
	cluster := []string{"cluster", "partition", "spread"}

	f.InstanceTypes["c5.xlarge"] = metadata.InstanceTypeInfo{
		InstanceType: "c5.xlarge", Architectures: x86, VCPUs: 4, DefaultCores: 2, DefaultThreadsPerCore: 2,
		MaxNetworkCards: 1, PlacementGroupStrategies: cluster,
	}
	f.InstanceTypes["c5.2xlarge"] = metadata.InstanceTypeInfo{
		InstanceType: "c5.2xlarge", Architectures: x86, VCPUs: 8, DefaultCores: 4, DefaultThreadsPerCore: 2,
		MaxNetworkCards: 1, PlacementGroupStrategies: cluster,
	}
	f.InstanceTypes["c5n.18xlarge"] = metadata.InstanceTypeInfo{
		InstanceType: "c5n.18xlarge", Architectures: x86, VCPUs: 72, DefaultCores: 36, DefaultThreadsPerCore: 2,
		EfaSupported: true, MaxNetworkCards: 1, PlacementGroupStrategies: cluster,
	}
	f.InstanceTypes["p4d.24xlarge"] = metadata.InstanceTypeInfo{
		InstanceType: "p4d.24xlarge", Architectures: x86, VCPUs: 96, DefaultCores: 48, DefaultThreadsPerCore: 2,
		EfaSupported: true, MaxNetworkCards: 4, PlacementGroupStrategies: cluster,
	}
	f.InstanceTypes["m6g.xlarge"] = metadata.InstanceTypeInfo{
		InstanceType: "m6g.xlarge", Architectures: arm, VCPUs: 4, DefaultCores: 4, DefaultThreadsPerCore: 1,
		MaxNetworkCards: 1, PlacementGroupStrategies: cluster,
	}
	f.InstanceTypes["c6gn.16xlarge"] = metadata.InstanceTypeInfo{
		InstanceType: "c6gn.16xlarge", Architectures: arm, VCPUs: 64, DefaultCores: 64, DefaultThreadsPerCore: 1,
		EfaSupported: true, MaxNetworkCards: 1, PlacementGroupStrategies: cluster,
	}
	f.InstanceTypes["t2.micro"] = metadata.InstanceTypeInfo{
		InstanceType: "t2.micro", Architectures: []string{"i386", metadata.ArchX86_64}, VCPUs: 1, DefaultCores: 1,
		DefaultThreadsPerCore: 1, MaxNetworkCards: 1, PlacementGroupStrategies: []string{"partition", "spread"},
	}

	f.Subnets[HeadNodeSubnet] = "us-east-1a"
	f.Subnets[ComputeSubnetA] = "us-east-1a"
	f.Subnets[ComputeSubnetA2] = "us-east-1a"
	f.Subnets[ComputeSubnetB] = "us-east-1b"

	f.Images[CustomImage] = true

	self := []string{EfaSecurityGroup}
	f.SecurityGroups[EfaSecurityGroup] = metadata.SecurityGroupRules{
		GroupID:  EfaSecurityGroup,
		Inbound:  []metadata.Rule{{Protocol: metadata.ProtocolAll, SourceGroupIDs: self}},
		Outbound: []metadata.Rule{{Protocol: metadata.ProtocolAll, SourceGroupIDs: self}},
	}
	f.SecurityGroups[PlainSecurityGroup] = metadata.SecurityGroupRules{
		GroupID: PlainSecurityGroup,
		Inbound: []metadata.Rule{{Protocol: "tcp", FromPort: 22, ToPort: 22, CIDRs: []string{"203.0.113.0/24"}}},
	}

	f.Reservations[ReservationZoneA] = metadata.CapacityReservationInfo{
		ID: ReservationZoneA, InstanceType: "c5.xlarge", AvailabilityZone: "us-east-1a", State: "active",
	}

	return f
}

// Calls returns the number of calls made for kind.
func (f *FakeCollaborator) Calls(kind metadata.QueryKind) int64 {
	return f.calls[kind].Load()
}

// TotalCalls returns the number of calls across all kinds.
func (f *FakeCollaborator) TotalCalls() int64 {
	var n int64
	for _, c := range f.calls {
		n += c.Load()
	}
	return n
}

// SetError forces the lookup of (kind, key) to fail with err.
func (f *FakeCollaborator) SetError(kind metadata.QueryKind, key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[metadata.Query{Kind: kind, Key: key}] = err
}

func (f *FakeCollaborator) begin(ctx context.Context, kind metadata.QueryKind, key string) error {
	f.calls[kind].Add(1)
	if f.Delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.Delay):
		}
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.Errors[metadata.Query{Kind: kind, Key: key}]
}

// DescribeInstanceType implements metadata.Collaborator.
func (f *FakeCollaborator) DescribeInstanceType(ctx context.Context, instanceType string) (metadata.InstanceTypeInfo, error) {
	if err := f.begin(ctx, metadata.KindInstanceType, instanceType); err != nil {
		return metadata.InstanceTypeInfo{}, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	info, ok := f.InstanceTypes[instanceType]
	if !ok {
		return metadata.InstanceTypeInfo{}, metadata.NotFound(fmt.Errorf("instance type %s does not exist", instanceType))
	}
	return info, nil
}

// GetSubnetAvailabilityZone implements metadata.Collaborator.
func (f *FakeCollaborator) GetSubnetAvailabilityZone(ctx context.Context, subnetID string) (string, error) {
	if err := f.begin(ctx, metadata.KindSubnetAZ, subnetID); err != nil {
		return "", err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	az, ok := f.Subnets[subnetID]
	if !ok {
		return "", metadata.NotFound(fmt.Errorf("subnet %s does not exist", subnetID))
	}
	return az, nil
}

// ImageExists implements metadata.Collaborator.
func (f *FakeCollaborator) ImageExists(ctx context.Context, imageID string) (bool, error) {
	if err := f.begin(ctx, metadata.KindImage, imageID); err != nil {
		return false, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.Images[imageID], nil
}

// DescribeSecurityGroupRules implements metadata.Collaborator.
func (f *FakeCollaborator) DescribeSecurityGroupRules(ctx context.Context, groupID string) (metadata.SecurityGroupRules, error) {
	if err := f.begin(ctx, metadata.KindSecurityGroupRules, groupID); err != nil {
		return metadata.SecurityGroupRules{}, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	rules, ok := f.SecurityGroups[groupID]
	if !ok {
		return metadata.SecurityGroupRules{}, metadata.NotFound(fmt.Errorf("security group %s does not exist", groupID))
	}
	return rules, nil
}

// DescribeCapacityReservation implements metadata.Collaborator.
func (f *FakeCollaborator) DescribeCapacityReservation(ctx context.Context, reservationID string) (metadata.CapacityReservationInfo, error) {
	if err := f.begin(ctx, metadata.KindCapacityReservation, reservationID); err != nil {
		return metadata.CapacityReservationInfo{}, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	res, ok := f.Reservations[reservationID]
	if !ok {
		return metadata.CapacityReservationInfo{}, metadata.NotFound(fmt.Errorf("capacity reservation %s does not exist", reservationID))
	}
	return res, nil
}

var _ metadata.Collaborator = (*FakeCollaborator)(nil)
