package validation

import (
	"github.com/imamik/hpcgate/internal/model"
	"github.com/imamik/hpcgate/internal/validators"
)

func registerCross(r *Registry) {
	r.RegisterCross(ClusterRule{Type: validators.TypeNumberOfStorage, Path: "SharedStorage", Check: func(env *Env) (results, error) {
		counts := make(map[model.StorageKind]int)
		for _, s := range env.Cluster.SharedStorage {
			counts[s.StorageKind()]++
		}
		return validators.NumberOfStorage(counts), nil
	}})
	r.RegisterCross(ClusterRule{Type: validators.TypeDuplicateMountDir, Path: "SharedStorage", Check: func(env *Env) (results, error) {
		return validators.DuplicateMountDir(mountEntries(env.Cluster)), nil
	}})
	r.RegisterCross(ClusterRule{Type: validators.TypeOverlappingMountDir, Path: "SharedStorage", Check: func(env *Env) (results, error) {
		return validators.OverlappingMountDir(mountEntries(env.Cluster)), nil
	}})
	r.RegisterCross(ClusterRule{Type: validators.TypeCapacityReservation, Path: "Scheduling", Check: checkCapacityReservations})
}

// mountEntries lists shared storage mount points in declaration order.
func mountEntries(c *model.Cluster) []validators.MountEntry {
	out := make([]validators.MountEntry, 0, len(c.SharedStorage))
	for _, s := range c.SharedStorage {
		out = append(out, validators.MountEntry{Name: s.Name(), MountDir: s.MountDir.Value})
	}
	return out
}

// checkCapacityReservations groups compute resources by the reservation they
// target, in first-seen order, and checks each reservation once against all
// of them.
func checkCapacityReservations(env *Env) (results, error) {
	usages := make(map[string][]validators.ReservationUsage)
	var order []string
	for _, q := range env.Cluster.AllQueues() {
		for _, cr := range q.ComputeResources {
			if !cr.CapacityReservationId.Set {
				continue
			}
			id := cr.CapacityReservationId.Value
			zones, err := subnetZones(env, q.Networking.SubnetIds)
			if err != nil {
				return nil, err
			}
			var subnets []validators.SubnetZone
			for _, sn := range q.Networking.SubnetIds {
				if az, ok := zones[sn]; ok {
					subnets = append(subnets, validators.SubnetZone{SubnetID: sn, Zone: az})
				}
			}
			if _, seen := usages[id]; !seen {
				order = append(order, id)
			}
			usages[id] = append(usages[id], validators.ReservationUsage{
				Queue:           q.Name(),
				ComputeResource: cr.Name(),
				InstanceTypes:   cr.InstanceTypes(),
				Subnets:         subnets,
			})
		}
	}

	var out results
	for _, id := range order {
		info, err := env.Cache.CapacityReservation(env.Ctx, id)
		missing, err := absent(err)
		if err != nil {
			return nil, err
		}
		out = append(out, validators.CapacityReservation(id, info, !missing, usages[id])...)
	}
	return out, nil
}
