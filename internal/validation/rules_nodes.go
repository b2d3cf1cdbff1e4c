package validation

import (
	"github.com/imamik/hpcgate/internal/model"
	"github.com/imamik/hpcgate/internal/validators"
)

type results = []validators.Result

func registerImage(r *Registry) {
	r.Register(model.KindImage, rule(validators.TypeImage, func(env *Env, img *model.Image) (results, error) {
		if !img.CustomAmi.Set {
			return nil, nil
		}
		exists, err := env.Cache.ImageExists(env.Ctx, img.CustomAmi.Value)
		if err != nil {
			return nil, err
		}
		return validators.Image(img.CustomAmi.Value, exists), nil
	}))
	r.Register(model.KindImage, rule(validators.TypeArchitectureOs, func(env *Env, img *model.Image) (results, error) {
		arch, ok, err := headNodeArchitecture(env)
		if !ok {
			return nil, err
		}
		return validators.ArchitectureOs(img.Os.Value, arch), nil
	}))
}

func registerHeadNode(r *Registry) {
	r.Register(model.KindHeadNode, rule(validators.TypeInstanceType, func(env *Env, h *model.HeadNode) (results, error) {
		_, err := env.Cache.InstanceType(env.Ctx, h.InstanceType.Value)
		missing, err := absent(err)
		if err != nil {
			return nil, err
		}
		return validators.InstanceType(h.InstanceType.Value, !missing), nil
	}))
	r.Register(model.KindHeadNode, rule(validators.TypeDisableSmtArchitecture, func(env *Env, h *model.HeadNode) (results, error) {
		arch, ok, err := headNodeArchitecture(env)
		if !ok {
			return nil, err
		}
		return validators.DisableSmtArchitecture(h.DisableSMT.Value, arch), nil
	}))
	r.Register(model.KindDcv, rule(validators.TypeDcv, func(env *Env, d *model.Dcv) (results, error) {
		if !d.Enabled.Value {
			return nil, nil
		}
		arch, ok, err := headNodeArchitecture(env)
		if !ok {
			return nil, err
		}
		return validators.Dcv(true, d.Port.Value, d.AllowedIps.Value, env.Cluster.Image.Os.Value, arch), nil
	}))
}

func registerNetworking(r *Registry) {
	r.Register(model.KindHeadNodeNetworking, rule(validators.TypeSubnets, func(env *Env, n *model.HeadNodeNetworking) (results, error) {
		if !n.SubnetId.Set {
			return nil, nil
		}
		zones, err := subnetZones(env, []string{n.SubnetId.Value})
		if err != nil {
			return nil, err
		}
		var missing []string
		if _, ok := zones[n.SubnetId.Value]; !ok {
			missing = append(missing, n.SubnetId.Value)
		}
		return validators.Subnets(missing), nil
	}))
	r.Register(model.KindHeadNodeNetworking, rule(validators.TypeSecurityGroups, func(env *Env, n *model.HeadNodeNetworking) (results, error) {
		return checkSecurityGroups(env, n.AllSecurityGroups())
	}))
	r.Register(model.KindQueueNetworking, rule(validators.TypeSecurityGroups, func(env *Env, n *model.QueueNetworking) (results, error) {
		return checkSecurityGroups(env, n.AllSecurityGroups())
	}))
}

func checkSecurityGroups(env *Env, ids []string) (results, error) {
	_, missing, err := securityGroups(env, ids)
	if err != nil {
		return nil, err
	}
	return validators.SecurityGroups(missing), nil
}

func registerVolumes(r *Registry) {
	for _, vr := range volumeRules(func(n model.Node) (*model.VolumeSettings, bool) {
		rv, ok := n.(*model.RootVolume)
		if !ok {
			return nil, false
		}
		return &rv.VolumeSettings, true
	}) {
		r.Register(model.KindRootVolume, vr)
	}
}

// volumeRules returns the EBS rules over the volume settings selected from
// a node. A node without EBS settings is skipped.
func volumeRules(settings func(model.Node) (*model.VolumeSettings, bool)) []NodeRule {
	check := func(t validators.Type, fn func(v *model.VolumeSettings) results) NodeRule {
		return NodeRule{Type: t, Check: func(_ *Env, n model.Node) (results, error) {
			v, ok := settings(n)
			if !ok {
				return nil, nil
			}
			return fn(v), nil
		}}
	}
	return []NodeRule{
		check(validators.TypeEbsVolumeTypeSize, func(v *model.VolumeSettings) results {
			return validators.EbsVolumeTypeSize(v.VolumeType.Value, v.Size.Value)
		}),
		check(validators.TypeEbsVolumeIops, func(v *model.VolumeSettings) results {
			return validators.EbsVolumeIops(v.VolumeType.Value, v.Size.Value, v.Iops)
		}),
		check(validators.TypeEbsVolumeThroughput, func(v *model.VolumeSettings) results {
			return validators.EbsVolumeThroughput(v.VolumeType.Value, v.Throughput)
		}),
		check(validators.TypeEbsVolumeThroughputIops, func(v *model.VolumeSettings) results {
			return validators.EbsVolumeThroughputIops(v.VolumeType.Value, v.Iops.Value, v.Throughput.Value)
		}),
		check(validators.TypeEbsKmsKey, func(v *model.VolumeSettings) results {
			return validators.EbsKmsKey(v.KmsKeyId, v.Encrypted.Value)
		}),
	}
}

func registerNodeGroupSettings(r *Registry) {
	r.Register(model.KindIam, rule(validators.TypeIamRoleComposition, func(_ *Env, i *model.Iam) (results, error) {
		return validators.IamRoleComposition(i.InstanceRole.Value, i.InstanceProfile.Value, len(i.S3Access), i.AdditionalIamPolicies), nil
	}))
	r.Register(model.KindCustomActions, rule(validators.TypeUrl, func(_ *Env, a *model.CustomActions) (results, error) {
		var out results
		for _, s := range a.Scripts() {
			out = append(out, validators.Url(s.Script)...)
		}
		return out, nil
	}))
}

func registerScheduling(r *Registry) {
	r.Register(model.KindScheduling, rule(validators.TypeSchedulerOs, func(env *Env, s *model.Scheduling) (results, error) {
		return validators.SchedulerOs(s.Scheduler.Value, env.Cluster.Image.Os.Value), nil
	}))
	r.Register(model.KindScheduling, rule(validators.TypeMaxCount, func(_ *Env, s *model.Scheduling) (results, error) {
		return validators.MaxCount("SlurmQueues", len(s.Queues), validators.MaxQueues), nil
	}))
}

func registerQueue(r *Registry) {
	r.Register(model.KindQueue, rule(validators.TypeQueueName, func(_ *Env, q *model.Queue) (results, error) {
		return validators.QueueName(q.Name()), nil
	}))
	r.Register(model.KindQueue, rule(validators.TypeMaxCount, func(_ *Env, q *model.Queue) (results, error) {
		return validators.MaxCount("ComputeResources", len(q.ComputeResources), validators.MaxComputeResourcesPerQueue), nil
	}))
	r.Register(model.KindQueue, rule(validators.TypeQueueSubnets, func(env *Env, q *model.Queue) (results, error) {
		zones, err := subnetZones(env, q.Networking.SubnetIds)
		if err != nil {
			return nil, err
		}
		return validators.QueueSubnets(q.Name(), q.Networking.SubnetIds, zones), nil
	}))
	r.Register(model.KindQueue, rule(validators.TypeMultiAzPlacementGroup, func(_ *Env, q *model.Queue) (results, error) {
		return validators.MultiAzPlacementGroup(q.Name(), q.Networking.MultiAz(), q.Networking.PlacementGroupEnabled.Value), nil
	}))
	r.Register(model.KindQueue, rule(validators.TypeEfaMultiAz, func(_ *Env, q *model.Queue) (results, error) {
		var efa []string
		for _, cr := range q.ComputeResources {
			if cr.EfaEnabled.Value {
				efa = append(efa, cr.Name())
			}
		}
		return validators.EfaMultiAz(q.Name(), q.Networking.MultiAz(), efa), nil
	}))
	r.Register(model.KindQueue, rule(validators.TypeDuplicateInstanceType, func(_ *Env, q *model.Queue) (results, error) {
		resources := make([]validators.ComputeResourceTypes, 0, len(q.ComputeResources))
		for _, cr := range q.ComputeResources {
			resources = append(resources, validators.ComputeResourceTypes{Name: cr.Name(), InstanceTypes: cr.InstanceTypes()})
		}
		return validators.DuplicateInstanceType(q.Name(), resources), nil
	}))
}

func registerSharedStorage(r *Registry) {
	r.Register(model.KindSharedStorage, rule(validators.TypeSharedStorageName, func(_ *Env, s *model.SharedStorage) (results, error) {
		return validators.SharedStorageName(s.Name()), nil
	}))
	r.Register(model.KindSharedStorage, rule(validators.TypeSharedStorageMountDir, func(_ *Env, s *model.SharedStorage) (results, error) {
		return validators.SharedStorageMountDir(s.Name(), s.MountDir.Value), nil
	}))
	r.Register(model.KindSharedStorage, rule(validators.TypeFsxStorageCapacity, func(_ *Env, s *model.SharedStorage) (results, error) {
		if s.Fsx == nil {
			return nil, nil
		}
		return validators.FsxStorageCapacity(validators.FsxCapacity{
			StorageCapacity:          s.Fsx.StorageCapacity.Value,
			DeploymentType:           s.Fsx.DeploymentType.Value,
			StorageType:              s.Fsx.StorageType.Value,
			PerUnitStorageThroughput: s.Fsx.PerUnitStorageThroughput.Value,
			Existing:                 s.Fsx.FileSystemId.Set,
		}), nil
	}))
	for _, vr := range volumeRules(func(n model.Node) (*model.VolumeSettings, bool) {
		s, ok := n.(*model.SharedStorage)
		if !ok || s.Ebs == nil {
			return nil, false
		}
		return &s.Ebs.VolumeSettings, true
	}) {
		r.Register(model.KindSharedStorage, vr)
	}
}

func registerClusterSettings(r *Registry) {
	r.Register(model.KindMonitoring, rule(validators.TypeLogRetention, func(_ *Env, m *model.Monitoring) (results, error) {
		if !m.LogsEnabled.Value {
			return nil, nil
		}
		return validators.LogRetention(m.RetentionInDays.Value), nil
	}))
	r.Register(model.KindTags, rule(validators.TypeTagKey, func(_ *Env, t *model.Tags) (results, error) {
		keys := make([]string, len(t.Items))
		for i, tag := range t.Items {
			keys[i] = tag.Key
		}
		return validators.TagKey(keys), nil
	}))
	r.Register(model.KindDevSettings, rule(validators.TypeUrl, func(_ *Env, d *model.DevSettings) (results, error) {
		var out results
		for _, u := range d.URLs() {
			out = append(out, validators.Url(u)...)
		}
		return out, nil
	}))
}
