package validators

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/imamik/hpcgate/internal/metadata"
)

// SecurityGroups reports referenced security groups that do not exist.
func SecurityGroups(missing []string) []Result {
	c := newCollector(TypeSecurityGroups)
	if len(missing) > 0 {
		c.errorf("The security group(s) %s do not exist or are not accessible.", strings.Join(missing, ", "))
	}
	return c.results
}

// Subnets reports referenced subnets that do not exist.
func Subnets(missing []string) []Result {
	c := newCollector(TypeSubnets)
	for _, id := range missing {
		c.errorf("The subnet '%s' does not exist or is not accessible.", id)
	}
	return c.results
}

// EfaSecurityGroup checks that an EFA-enabled compute resource has a
// security group allowing all traffic to and from itself. groups holds the
// rules of every security group attached to the queue; when it is empty the
// cluster creates the group and no check is made.
func EfaSecurityGroup(efaEnabled bool, groups []metadata.SecurityGroupRules) []Result {
	c := newCollector(TypeEfaSecurityGroup)
	if !efaEnabled || len(groups) == 0 {
		return nil
	}
	if !slices.ContainsFunc(groups, metadata.SecurityGroupRules.SelfReferencingAllTraffic) {
		ids := make([]string, len(groups))
		for i, g := range groups {
			ids[i] = g.GroupID
		}
		c.errorf("An EFA-enabled compute resource requires a security group that allows all inbound and outbound "+
			"traffic to and from the security group itself. None of the security groups (%s) has such rules. See "+
			"https://docs.aws.amazon.com/AWSEC2/latest/UserGuide/efa-start.html#efa-start-security", strings.Join(ids, ", "))
	}
	return c.results
}

// PlacementGroup describes the placement group settings of a queue.
type PlacementGroup struct {
	// Explicit is true when the document sets Enabled or Id.
	Explicit bool
	Enabled  bool
}

// EfaPlacementGroup checks that EFA-enabled compute resources make an
// explicit placement group choice. Queues spanning several availability
// zones cannot use placement groups and are not checked.
func EfaPlacementGroup(efaEnabled, multiAz bool, pg PlacementGroup) []Result {
	c := newCollector(TypeEfaPlacementGroup)
	if !efaEnabled || multiAz {
		return nil
	}
	switch {
	case !pg.Explicit:
		c.errorf("The placement group for EFA-enabled compute resources must be explicit. You may see better " +
			"performance using a placement group, but if you don't wish to use one please add 'Enabled: false' to " +
			"the compute resource's configuration section.")
	case !pg.Enabled:
		c.warningf("You may see better performance using a placement group for the queue.")
	}
	return c.results
}

// EfaMultiAz reports EFA-enabled compute resources on a queue spanning
// several subnets.
func EfaMultiAz(queue string, multiAz bool, efaComputeResources []string) []Result {
	c := newCollector(TypeEfaMultiAz)
	if !multiAz {
		return nil
	}
	for _, cr := range efaComputeResources {
		c.errorf("You have enabled the Elastic Fabric Adapter (EFA) for the '%s' Compute Resource on the '%s' queue. "+
			"EFA is not supported across Availability zones. Either disable EFA to use multiple subnets on the queue "+
			"or specify only one subnet to enable EFA on the compute resource.", cr, queue)
	}
	return c.results
}

// MultiAzPlacementGroup reports a placement group on a queue spanning
// several subnets.
func MultiAzPlacementGroup(queue string, multiAz, placementGroupEnabled bool) []Result {
	c := newCollector(TypeMultiAzPlacementGroup)
	if multiAz && placementGroupEnabled {
		c.errorf("You have enabled PlacementGroups for the '%s' queue. PlacementGroups are not supported across "+
			"Availability zones. Either remove the PlacementGroup configuration to use multiple subnets on the queue "+
			"or specify only one subnet to use a PlacementGroup.", queue)
	}
	return c.results
}

// QueueSubnets checks the subnets of a queue. zones maps each subnet that
// exists to its availability zone; subnets absent from zones do not exist.
func QueueSubnets(queue string, subnetIDs []string, zones map[string]string) []Result {
	c := newCollector(TypeQueueSubnets)

	seen := make(map[string]bool, len(subnetIDs))
	var duplicates, missing []string
	for _, id := range subnetIDs {
		if seen[id] {
			if !slices.Contains(duplicates, id) {
				duplicates = append(duplicates, id)
			}
			continue
		}
		seen[id] = true
		if _, ok := zones[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(duplicates) > 0 {
		c.errorf("The following Subnet Ids are specified multiple times in the SubnetId's configuration of the '%s' "+
			"queue: '%s'. Please remove the duplicate subnet Ids from the queue's SubnetId configuration.",
			queue, strings.Join(duplicates, ", "))
	}
	for _, id := range missing {
		c.errorf("The subnet '%s' of the '%s' queue does not exist or is not accessible.", id, queue)
	}

	byZone := make(map[string][]string)
	for id := range seen {
		if az, ok := zones[id]; ok {
			byZone[az] = append(byZone[az], id)
		}
	}
	var crowded []string
	for az, ids := range byZone {
		if len(ids) > 1 {
			sort.Strings(ids)
			crowded = append(crowded, fmt.Sprintf("%s: %s", az, strings.Join(ids, ", ")))
		}
	}
	if len(crowded) > 0 {
		sort.Strings(crowded)
		c.errorf("SubnetIds configured for the '%s' queue contains two or more subnets in the same Availability "+
			"Zone: '%s'. Please make sure all subnets configured for the queue are in different Availability Zones.",
			queue, strings.Join(crowded, "; "))
	}
	return c.results
}

// SubnetZone is a subnet and its availability zone.
type SubnetZone struct {
	SubnetID string
	Zone     string
}

// ReservationUsage is one compute resource targeting a capacity reservation.
type ReservationUsage struct {
	Queue           string
	ComputeResource string
	InstanceTypes   []string
	Subnets         []SubnetZone
}

// CapacityReservation checks that a reservation matches the instance type
// and availability zones of every compute resource targeting it, across all
// queues.
func CapacityReservation(reservationID string, info metadata.CapacityReservationInfo, exists bool, usages []ReservationUsage) []Result {
	c := newCollector(TypeCapacityReservation)
	if !exists {
		c.errorf("Capacity reservation %s does not exist or is not accessible.", reservationID)
		return c.results
	}
	for _, u := range usages {
		for _, it := range u.InstanceTypes {
			if it != info.InstanceType {
				c.errorf("Capacity reservation %s must have the same instance type as %s of compute resource '%s' "+
					"in queue '%s', but it reserves %s.", reservationID, it, u.ComputeResource, u.Queue, info.InstanceType)
			}
		}
		for _, s := range u.Subnets {
			if s.Zone != info.AvailabilityZone {
				c.errorf("Capacity reservation %s is in availability zone %s, but compute resource '%s' in queue '%s' "+
					"uses subnet %s in availability zone %s.",
					reservationID, info.AvailabilityZone, u.ComputeResource, u.Queue, s.SubnetID, s.Zone)
			}
		}
	}
	return c.results
}
