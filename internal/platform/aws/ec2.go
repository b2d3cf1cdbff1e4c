package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"golang.org/x/time/rate"

	"github.com/imamik/hpcgate/internal/metadata"
)

// EC2API is the subset of the EC2 API used for metadata lookups.
type EC2API interface {
	DescribeInstanceTypes(ctx context.Context, params *ec2.DescribeInstanceTypesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceTypesOutput, error)
	DescribeSubnets(ctx context.Context, params *ec2.DescribeSubnetsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error)
	DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
	DescribeSecurityGroups(ctx context.Context, params *ec2.DescribeSecurityGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error)
	DescribeCapacityReservations(ctx context.Context, params *ec2.DescribeCapacityReservationsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeCapacityReservationsOutput, error)
}

// errEmptyResult is returned when EC2 answers without the requested item.
var errEmptyResult = errors.New("no matching resource returned")

// EC2Client implements metadata.Collaborator using the EC2 API.
type EC2Client struct {
	api     EC2API
	limiter *rate.Limiter
}

// NewEC2Client creates a collaborator from an AWS config. requestsPerSecond
// bounds the call rate; zero or less disables pacing.
func NewEC2Client(cfg aws.Config, requestsPerSecond float64) *EC2Client {
	api := ec2.NewFromConfig(cfg, func(o *ec2.Options) {
		// The metadata cache retries transient failures itself.
		o.RetryMaxAttempts = 1
	})
	return NewEC2ClientWithAPI(api, requestsPerSecond)
}

// NewEC2ClientWithAPI creates a collaborator around an existing EC2API.
func NewEC2ClientWithAPI(api EC2API, requestsPerSecond float64) *EC2Client {
	limit := rate.Inf
	burst := 0
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = max(1, int(requestsPerSecond))
	}
	return &EC2Client{api: api, limiter: rate.NewLimiter(limit, burst)}
}

func (c *EC2Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// DescribeInstanceType implements metadata.Collaborator.
func (c *EC2Client) DescribeInstanceType(ctx context.Context, instanceType string) (metadata.InstanceTypeInfo, error) {
	if err := c.wait(ctx); err != nil {
		return metadata.InstanceTypeInfo{}, err
	}
	out, err := c.api.DescribeInstanceTypes(ctx, &ec2.DescribeInstanceTypesInput{
		InstanceTypes: []ec2types.InstanceType{ec2types.InstanceType(instanceType)},
	})
	if err != nil {
		return metadata.InstanceTypeInfo{}, classify(fmt.Errorf("failed to describe instance type %s: %w", instanceType, err))
	}
	if len(out.InstanceTypes) == 0 {
		return metadata.InstanceTypeInfo{}, metadata.NotFound(fmt.Errorf("instance type %s: %w", instanceType, errEmptyResult))
	}
	return toInstanceTypeInfo(out.InstanceTypes[0]), nil
}

func toInstanceTypeInfo(it ec2types.InstanceTypeInfo) metadata.InstanceTypeInfo {
	info := metadata.InstanceTypeInfo{InstanceType: string(it.InstanceType)}
	if it.ProcessorInfo != nil {
		for _, a := range it.ProcessorInfo.SupportedArchitectures {
			info.Architectures = append(info.Architectures, string(a))
		}
	}
	if it.VCpuInfo != nil {
		info.VCPUs = int(aws.ToInt32(it.VCpuInfo.DefaultVCpus))
		info.DefaultCores = int(aws.ToInt32(it.VCpuInfo.DefaultCores))
		info.DefaultThreadsPerCore = int(aws.ToInt32(it.VCpuInfo.DefaultThreadsPerCore))
	}
	if it.NetworkInfo != nil {
		info.EfaSupported = aws.ToBool(it.NetworkInfo.EfaSupported)
		info.MaxNetworkCards = int(aws.ToInt32(it.NetworkInfo.MaximumNetworkCards))
	}
	if it.PlacementGroupInfo != nil {
		for _, s := range it.PlacementGroupInfo.SupportedStrategies {
			info.PlacementGroupStrategies = append(info.PlacementGroupStrategies, string(s))
		}
	}
	return info
}

// GetSubnetAvailabilityZone implements metadata.Collaborator.
func (c *EC2Client) GetSubnetAvailabilityZone(ctx context.Context, subnetID string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	out, err := c.api.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{SubnetIds: []string{subnetID}})
	if err != nil {
		return "", classify(fmt.Errorf("failed to describe subnet %s: %w", subnetID, err))
	}
	if len(out.Subnets) == 0 {
		return "", metadata.NotFound(fmt.Errorf("subnet %s: %w", subnetID, errEmptyResult))
	}
	return aws.ToString(out.Subnets[0].AvailabilityZone), nil
}

// ImageExists implements metadata.Collaborator.
func (c *EC2Client) ImageExists(ctx context.Context, imageID string) (bool, error) {
	if err := c.wait(ctx); err != nil {
		return false, err
	}
	out, err := c.api.DescribeImages(ctx, &ec2.DescribeImagesInput{ImageIds: []string{imageID}})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, classify(fmt.Errorf("failed to describe image %s: %w", imageID, err))
	}
	return len(out.Images) > 0, nil
}

// DescribeSecurityGroupRules implements metadata.Collaborator.
func (c *EC2Client) DescribeSecurityGroupRules(ctx context.Context, groupID string) (metadata.SecurityGroupRules, error) {
	if err := c.wait(ctx); err != nil {
		return metadata.SecurityGroupRules{}, err
	}
	out, err := c.api.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{GroupIds: []string{groupID}})
	if err != nil {
		return metadata.SecurityGroupRules{}, classify(fmt.Errorf("failed to describe security group %s: %w", groupID, err))
	}
	if len(out.SecurityGroups) == 0 {
		return metadata.SecurityGroupRules{}, metadata.NotFound(fmt.Errorf("security group %s: %w", groupID, errEmptyResult))
	}

	sg := out.SecurityGroups[0]
	return metadata.SecurityGroupRules{
		GroupID:  aws.ToString(sg.GroupId),
		Inbound:  toRules(sg.IpPermissions),
		Outbound: toRules(sg.IpPermissionsEgress),
	}, nil
}

func toRules(perms []ec2types.IpPermission) []metadata.Rule {
	rules := make([]metadata.Rule, 0, len(perms))
	for _, p := range perms {
		r := metadata.Rule{
			Protocol: aws.ToString(p.IpProtocol),
			FromPort: int(aws.ToInt32(p.FromPort)),
			ToPort:   int(aws.ToInt32(p.ToPort)),
		}
		for _, pair := range p.UserIdGroupPairs {
			r.SourceGroupIDs = append(r.SourceGroupIDs, aws.ToString(pair.GroupId))
		}
		for _, ipr := range p.IpRanges {
			r.CIDRs = append(r.CIDRs, aws.ToString(ipr.CidrIp))
		}
		rules = append(rules, r)
	}
	return rules
}

// DescribeCapacityReservation implements metadata.Collaborator.
func (c *EC2Client) DescribeCapacityReservation(ctx context.Context, reservationID string) (metadata.CapacityReservationInfo, error) {
	if err := c.wait(ctx); err != nil {
		return metadata.CapacityReservationInfo{}, err
	}
	out, err := c.api.DescribeCapacityReservations(ctx, &ec2.DescribeCapacityReservationsInput{
		CapacityReservationIds: []string{reservationID},
	})
	if err != nil {
		return metadata.CapacityReservationInfo{}, classify(fmt.Errorf("failed to describe capacity reservation %s: %w", reservationID, err))
	}
	if len(out.CapacityReservations) == 0 {
		return metadata.CapacityReservationInfo{}, metadata.NotFound(fmt.Errorf("capacity reservation %s: %w", reservationID, errEmptyResult))
	}

	cr := out.CapacityReservations[0]
	return metadata.CapacityReservationInfo{
		ID:               aws.ToString(cr.CapacityReservationId),
		InstanceType:     aws.ToString(cr.InstanceType),
		AvailabilityZone: aws.ToString(cr.AvailabilityZone),
		State:            string(cr.State),
	}, nil
}

var _ metadata.Collaborator = (*EC2Client)(nil)
