package validation

import (
	"github.com/imamik/hpcgate/internal/metadata"
	"github.com/imamik/hpcgate/internal/model"
)

// Queries returns every metadata lookup the default rules may issue for c.
// Duplicates are left for the cache to drop.
func Queries(c *model.Cluster) []metadata.Query {
	var qs []metadata.Query
	add := func(kind metadata.QueryKind, keys ...string) {
		for _, k := range keys {
			qs = append(qs, metadata.Query{Kind: kind, Key: k})
		}
	}

	if c.Image != nil && c.Image.CustomAmi.Set {
		add(metadata.KindImage, c.Image.CustomAmi.Value)
	}
	if h := c.HeadNode; h != nil {
		add(metadata.KindInstanceType, h.InstanceType.Value)
		if h.Networking != nil {
			if h.Networking.SubnetId.Set {
				add(metadata.KindSubnetAZ, h.Networking.SubnetId.Value)
			}
			add(metadata.KindSecurityGroupRules, h.Networking.AllSecurityGroups()...)
		}
	}
	for _, q := range c.AllQueues() {
		add(metadata.KindSubnetAZ, q.Networking.SubnetIds...)
		add(metadata.KindSecurityGroupRules, q.Networking.AllSecurityGroups()...)
		for _, cr := range q.ComputeResources {
			add(metadata.KindInstanceType, cr.InstanceTypes()...)
			if cr.CapacityReservationId.Set {
				add(metadata.KindCapacityReservation, cr.CapacityReservationId.Value)
			}
		}
	}
	return qs
}
