package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/hpcgate/internal/metadata"
)

// MockCollaborator is a testify mock of metadata.Collaborator, used when a
// test needs to script a sequence of responses such as throttling followed
// by success.
type MockCollaborator struct {
	mock.Mock
}

// DescribeInstanceType implements metadata.Collaborator.
func (m *MockCollaborator) DescribeInstanceType(ctx context.Context, instanceType string) (metadata.InstanceTypeInfo, error) {
	args := m.Called(ctx, instanceType)
	return args.Get(0).(metadata.InstanceTypeInfo), args.Error(1)
}

// GetSubnetAvailabilityZone implements metadata.Collaborator.
func (m *MockCollaborator) GetSubnetAvailabilityZone(ctx context.Context, subnetID string) (string, error) {
	args := m.Called(ctx, subnetID)
	return args.String(0), args.Error(1)
}

// ImageExists implements metadata.Collaborator.
func (m *MockCollaborator) ImageExists(ctx context.Context, imageID string) (bool, error) {
	args := m.Called(ctx, imageID)
	return args.Bool(0), args.Error(1)
}

// DescribeSecurityGroupRules implements metadata.Collaborator.
func (m *MockCollaborator) DescribeSecurityGroupRules(ctx context.Context, groupID string) (metadata.SecurityGroupRules, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(metadata.SecurityGroupRules), args.Error(1)
}

// DescribeCapacityReservation implements metadata.Collaborator.
func (m *MockCollaborator) DescribeCapacityReservation(ctx context.Context, reservationID string) (metadata.CapacityReservationInfo, error) {
	args := m.Called(ctx, reservationID)
	return args.Get(0).(metadata.CapacityReservationInfo), args.Error(1)
}

var _ metadata.Collaborator = (*MockCollaborator)(nil)
