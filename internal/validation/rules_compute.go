package validation

import (
	"github.com/imamik/hpcgate/internal/model"
	"github.com/imamik/hpcgate/internal/validators"
)

func registerComputeResource(r *Registry) {
	cr := func(t validators.Type, check func(env *Env, q *model.Queue, c *model.ComputeResource) (results, error)) {
		r.Register(model.KindComputeResource, rule(t, func(env *Env, c *model.ComputeResource) (results, error) {
			return check(env, env.Cluster.QueueByName(c.QueueName), c)
		}))
	}

	cr(validators.TypeComputeResourceName, func(_ *Env, _ *model.Queue, c *model.ComputeResource) (results, error) {
		return validators.ComputeResourceName(c.Name()), nil
	})
	cr(validators.TypeComputeResourceSize, func(_ *Env, _ *model.Queue, c *model.ComputeResource) (results, error) {
		return validators.ComputeResourceSize(c.MinCount.Value, c.MaxCount.Value), nil
	})
	cr(validators.TypeMaxCount, func(_ *Env, _ *model.Queue, c *model.ComputeResource) (results, error) {
		return validators.MaxCount("Instances", len(c.Instances), validators.MaxInstanceTypesPerComputeResource), nil
	})
	cr(validators.TypeInstanceType, func(env *Env, _ *model.Queue, c *model.ComputeResource) (results, error) {
		var out results
		for _, it := range c.InstanceTypes() {
			_, err := env.Cache.InstanceType(env.Ctx, it)
			missing, err := absent(err)
			if err != nil {
				return nil, err
			}
			out = append(out, validators.InstanceType(it, !missing)...)
		}
		return out, nil
	})
	cr(validators.TypeInstanceArchitectureCompatibility, func(env *Env, _ *model.Queue, c *model.ComputeResource) (results, error) {
		headArch, ok, err := headNodeArchitecture(env)
		if !ok {
			return nil, err
		}
		infos, err := instanceInfos(env, c.InstanceTypes())
		if err != nil {
			return nil, err
		}
		var out results
		for _, info := range infos {
			out = append(out, validators.InstanceArchitectureCompatibility(info.InstanceType, info.Architectures, headArch)...)
		}
		return out, nil
	})
	cr(validators.TypeDisableSmtArchitecture, func(env *Env, _ *model.Queue, c *model.ComputeResource) (results, error) {
		if !c.DisableSMT.Value {
			return nil, nil
		}
		arch, err := c.Architecture(env.Ctx, env.Cache)
		if missing, err := absent(err); missing || err != nil {
			return nil, err
		}
		return validators.DisableSmtArchitecture(true, arch), nil
	})
	cr(validators.TypeArchitectureOs, func(env *Env, _ *model.Queue, c *model.ComputeResource) (results, error) {
		if env.Policy != ComputeResourceGoverns {
			return nil, nil
		}
		arch, ok, err := governingArchitecture(env, c)
		if !ok {
			return nil, err
		}
		return validators.ArchitectureOs(env.Cluster.Image.Os.Value, arch), nil
	})
	cr(validators.TypeEfaOsArchitecture, func(env *Env, _ *model.Queue, c *model.ComputeResource) (results, error) {
		if !c.EfaEnabled.Value {
			return nil, nil
		}
		arch, ok, err := governingArchitecture(env, c)
		if !ok {
			return nil, err
		}
		return validators.EfaOsArchitecture(true, env.Cluster.Image.Os.Value, arch), nil
	})
	cr(validators.TypeEfa, func(env *Env, _ *model.Queue, c *model.ComputeResource) (results, error) {
		if !c.InstanceType.Set {
			return nil, nil
		}
		info, err := env.Cache.InstanceType(env.Ctx, c.InstanceType.Value)
		if missing, err := absent(err); missing || err != nil {
			return nil, err
		}
		return validators.Efa(info, c.EfaEnabled.Value, c.EfaGdrSupport.Value), nil
	})
	cr(validators.TypeEfaSecurityGroup, func(env *Env, q *model.Queue, c *model.ComputeResource) (results, error) {
		// Without user security groups a managed group with the required rules is created.
		if !c.EfaEnabled.Value || q == nil || len(q.Networking.SecurityGroups) == 0 {
			return nil, nil
		}
		groups, _, err := securityGroups(env, q.Networking.AllSecurityGroups())
		if err != nil {
			return nil, err
		}
		return validators.EfaSecurityGroup(true, groups), nil
	})
	cr(validators.TypeEfaPlacementGroup, func(_ *Env, q *model.Queue, c *model.ComputeResource) (results, error) {
		if q == nil {
			return nil, nil
		}
		n := q.Networking
		pg := validators.PlacementGroup{
			Explicit: n.PlacementGroupEnabled.IsGiven() || n.PlacementGroupId.Set,
			Enabled:  n.PlacementGroupEnabled.Value || n.PlacementGroupId.Set,
		}
		return validators.EfaPlacementGroup(c.EfaEnabled.Value, n.MultiAz(), pg), nil
	})
	cr(validators.TypeInstancesCpu, func(env *Env, _ *model.Queue, c *model.ComputeResource) (results, error) {
		if len(c.Instances) == 0 {
			return nil, nil
		}
		infos, err := instanceInfos(env, c.Instances)
		if err != nil {
			return nil, err
		}
		return validators.InstancesCpu(c.Name(), c.DisableSMT.Value, infos), nil
	})
	cr(validators.TypeInstancesEfa, func(env *Env, _ *model.Queue, c *model.ComputeResource) (results, error) {
		if len(c.Instances) == 0 {
			return nil, nil
		}
		infos, err := instanceInfos(env, c.Instances)
		if err != nil {
			return nil, err
		}
		return validators.InstancesEfa(c.Name(), c.EfaEnabled.Value, infos), nil
	})
	cr(validators.TypeInstancesNetworking, func(env *Env, q *model.Queue, c *model.ComputeResource) (results, error) {
		if len(c.Instances) == 0 || q == nil {
			return nil, nil
		}
		infos, err := instanceInfos(env, c.Instances)
		if err != nil {
			return nil, err
		}
		return validators.InstancesNetworking(q.Name(), c.Name(), q.Networking.PlacementGroupEnabled.Value, infos), nil
	})
}
