package model

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/imamik/hpcgate/internal/config"
)

// Export serializes a resolved tree back into document form. Implied
// values are written only when includeImplied is set; sections left empty
// are omitted. Key order follows the document schema.
func Export(c *Cluster, includeImplied bool) ([]byte, error) {
	doc := Document(c, includeImplied)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode resolved document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode resolved document: %w", err)
	}
	return buf.Bytes(), nil
}

// Document converts a resolved tree back into a config.Document.
func Document(c *Cluster, includeImplied bool) *config.Document {
	e := exporter{implied: includeImplied}
	doc := &config.Document{
		Region:     exportParam(c.Region, e.implied),
		Image:      e.image(c.Image),
		HeadNode:   e.headNode(c.HeadNode),
		Scheduling: e.scheduling(c.Scheduling),
		Monitoring: e.monitoring(c.Monitoring),
	}
	for _, s := range c.SharedStorage {
		doc.SharedStorage = append(doc.SharedStorage, e.sharedStorage(s))
	}
	if c.Iam != nil {
		doc.Iam = &config.ClusterIamSpec{PermissionsBoundary: exportParam(c.Iam.PermissionsBoundary, e.implied)}
		if r := exportParam(c.Iam.LambdaFunctionsRole, e.implied); r != nil {
			doc.Iam.Roles = &config.RolesSpec{LambdaFunctionsRole: r}
		}
	}
	for _, t := range c.Tags.Items {
		doc.Tags = append(doc.Tags, config.TagSpec{Key: t.Key, Value: t.Value})
	}
	if c.DevSettings != nil {
		doc.DevSettings = &config.DevSettingsSpec{
			ClusterTemplate:    exportParam(c.DevSettings.ClusterTemplate, e.implied),
			NodePackage:        exportParam(c.DevSettings.NodePackage, e.implied),
			AwsBatchCliPackage: exportParam(c.DevSettings.AwsBatchCliPackage, e.implied),
		}
	}
	return doc
}

type exporter struct {
	implied bool
}

// exportParam returns nil for unset params and, unless implied is set, for defaults.
func exportParam[T any](p Param[T], implied bool) *T {
	if !p.Set || (p.Implied && !implied) {
		return nil
	}
	v := p.Value
	return &v
}

// omitZero returns nil for a section with no fields set.
func omitZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

func (e exporter) image(img *Image) *config.ImageSpec {
	return &config.ImageSpec{Os: img.Os.Value, CustomAmi: exportParam(img.CustomAmi, e.implied)}
}

func (e exporter) volume(v VolumeSettings) config.VolumeSpec {
	return config.VolumeSpec{
		VolumeType:          exportParam(v.VolumeType, e.implied),
		Size:                exportParam(v.Size, e.implied),
		Iops:                exportParam(v.Iops, e.implied),
		Throughput:          exportParam(v.Throughput, e.implied),
		Encrypted:           exportParam(v.Encrypted, e.implied),
		KmsKeyId:            exportParam(v.KmsKeyId, e.implied),
		DeleteOnTermination: exportParam(v.DeleteOnTermination, e.implied),
	}
}

func (e exporter) localStorage(ls *LocalStorage) *config.LocalStorageSpec {
	spec := config.LocalStorageSpec{
		RootVolume: omitZero(e.volume(ls.RootVolume.VolumeSettings)),
	}
	if dir := exportParam(ls.EphemeralMountDir, e.implied); dir != nil {
		spec.EphemeralVolume = &config.EphemeralVolumeSpec{MountDir: dir}
	}
	return omitZero(spec)
}

func (e exporter) proxy(p Param[string]) *config.ProxySpec {
	if addr := exportParam(p, e.implied); addr != nil {
		return &config.ProxySpec{HttpProxyAddress: addr}
	}
	return nil
}

func (e exporter) customActions(ca *CustomActions) *config.CustomActionsSpec {
	if ca == nil {
		return nil
	}
	script := func(s *Script) *config.ScriptSpec {
		if s == nil {
			return nil
		}
		return &config.ScriptSpec{Script: s.Script, Args: s.Args}
	}
	return &config.CustomActionsSpec{OnNodeStart: script(ca.OnNodeStart), OnNodeConfigured: script(ca.OnNodeConfigured)}
}

func (e exporter) iam(iam *Iam) *config.IamSpec {
	if iam == nil {
		return nil
	}
	spec := &config.IamSpec{
		InstanceRole:    exportParam(iam.InstanceRole, e.implied),
		InstanceProfile: exportParam(iam.InstanceProfile, e.implied),
	}
	for _, s := range iam.S3Access {
		spec.S3Access = append(spec.S3Access, config.S3AccessSpec{
			BucketName:        s.BucketName,
			KeyName:           exportParam(s.KeyName, e.implied),
			EnableWriteAccess: exportParam(s.EnableWriteAccess, e.implied),
		})
	}
	for _, p := range iam.AdditionalIamPolicies {
		spec.AdditionalIamPolicies = append(spec.AdditionalIamPolicies, config.PolicySpec{Policy: p})
	}
	return spec
}

func (e exporter) headNode(h *HeadNode) *config.HeadNodeSpec {
	spec := &config.HeadNodeSpec{
		InstanceType:                      h.InstanceType.Value,
		DisableSimultaneousMultithreading: exportParam(h.DisableSMT, e.implied),
		Networking: &config.HeadNodeNetworkingSpec{
			SubnetId:                 h.Networking.SubnetId.Value,
			ElasticIp:                exportParam(h.Networking.ElasticIp, e.implied),
			SecurityGroups:           h.Networking.SecurityGroups,
			AdditionalSecurityGroups: h.Networking.AdditionalSecurityGroups,
			Proxy:                    e.proxy(h.Networking.HttpProxyAddress),
		},
		Ssh: omitZero(config.SshSpec{
			KeyName:    exportParam(h.SshKeyName, e.implied),
			AllowedIps: exportParam(h.SshAllowedIps, e.implied),
		}),
		LocalStorage:  e.localStorage(h.LocalStorage),
		CustomActions: e.customActions(h.CustomActions),
		Iam:           e.iam(h.Iam),
	}
	if h.Dcv != nil {
		spec.Dcv = &config.DcvSpec{
			Enabled:    exportParam(h.Dcv.Enabled, e.implied),
			Port:       exportParam(h.Dcv.Port, e.implied),
			AllowedIps: exportParam(h.Dcv.AllowedIps, e.implied),
		}
	}
	return spec
}

func (e exporter) scheduling(s *Scheduling) *config.SchedulingSpec {
	spec := &config.SchedulingSpec{Scheduler: s.Scheduler.Value}
	if idle := exportParam(s.ScaledownIdletime, e.implied); idle != nil {
		spec.SlurmSettings = &config.SlurmSettingsSpec{ScaledownIdletime: idle}
	}
	for _, q := range s.Queues {
		spec.Queues = append(spec.Queues, e.queue(q))
	}
	return spec
}

func (e exporter) queue(q *Queue) config.QueueSpec {
	spec := config.QueueSpec{
		Name:         q.Name(),
		CapacityType: exportParam(q.CapacityType, e.implied),
		Networking: &config.QueueNetworkingSpec{
			SubnetIds:                q.Networking.SubnetIds,
			SecurityGroups:           q.Networking.SecurityGroups,
			AdditionalSecurityGroups: q.Networking.AdditionalSecurityGroups,
			PlacementGroup: omitZero(config.PlacementGroupSpec{
				Enabled: exportParam(q.Networking.PlacementGroupEnabled, e.implied),
				Id:      exportParam(q.Networking.PlacementGroupId, e.implied),
			}),
			Proxy: e.proxy(q.Networking.HttpProxyAddress),
		},
		CustomActions: e.customActions(q.CustomActions),
		Iam:           e.iam(q.Iam),
	}
	if ls := e.localStorage(q.LocalStorage); ls != nil {
		spec.ComputeSettings = &config.ComputeSettingsSpec{LocalStorage: ls}
	}
	for _, cr := range q.ComputeResources {
		spec.ComputeResources = append(spec.ComputeResources, e.computeResource(cr))
	}
	return spec
}

func (e exporter) computeResource(cr *ComputeResource) config.ComputeResourceSpec {
	spec := config.ComputeResourceSpec{
		Name:                              cr.Name(),
		InstanceType:                      exportParam(cr.InstanceType, e.implied),
		MinCount:                          exportParam(cr.MinCount, e.implied),
		MaxCount:                          exportParam(cr.MaxCount, e.implied),
		DisableSimultaneousMultithreading: exportParam(cr.DisableSMT, e.implied),
		Efa: omitZero(config.EfaSpec{
			Enabled:    exportParam(cr.EfaEnabled, e.implied),
			GdrSupport: exportParam(cr.EfaGdrSupport, e.implied),
		}),
	}
	for _, it := range cr.Instances {
		spec.Instances = append(spec.Instances, config.InstanceSpec{InstanceType: it})
	}
	if id := exportParam(cr.CapacityReservationId, e.implied); id != nil {
		spec.CapacityReservationTarget = &config.CapacityReservationTargetSpec{CapacityReservationId: id}
	}
	return spec
}

func (e exporter) sharedStorage(s *SharedStorage) config.SharedStorageSpec {
	spec := config.SharedStorageSpec{
		Name:        s.Name(),
		MountDir:    s.MountDir.Value,
		StorageType: s.StorageKind().StorageType(),
	}
	switch {
	case s.Ebs != nil:
		spec.EbsSettings = omitZero(config.EbsSettingsSpec{
			VolumeSpec: e.volume(s.Ebs.VolumeSettings),
			VolumeId:   exportParam(s.Ebs.VolumeId, e.implied),
			SnapshotId: exportParam(s.Ebs.SnapshotId, e.implied),
		})
	case s.Efs != nil:
		spec.EfsSettings = omitZero(config.EfsSettingsSpec{
			PerformanceMode:       exportParam(s.Efs.PerformanceMode, e.implied),
			ThroughputMode:        exportParam(s.Efs.ThroughputMode, e.implied),
			ProvisionedThroughput: exportParam(s.Efs.ProvisionedThroughput, e.implied),
			Encrypted:             exportParam(s.Efs.Encrypted, e.implied),
			FileSystemId:          exportParam(s.Efs.FileSystemId, e.implied),
		})
	case s.Fsx != nil:
		spec.FsxLustreSettings = omitZero(config.FsxLustreSettingsSpec{
			DeploymentType:           exportParam(s.Fsx.DeploymentType, e.implied),
			StorageCapacity:          exportParam(s.Fsx.StorageCapacity, e.implied),
			StorageType:              exportParam(s.Fsx.StorageType, e.implied),
			PerUnitStorageThroughput: exportParam(s.Fsx.PerUnitStorageThroughput, e.implied),
			FileSystemId:             exportParam(s.Fsx.FileSystemId, e.implied),
			ImportPath:               exportParam(s.Fsx.ImportPath, e.implied),
			ExportPath:               exportParam(s.Fsx.ExportPath, e.implied),
		})
	}
	return spec
}

func (e exporter) monitoring(m *Monitoring) *config.MonitoringSpec {
	spec := config.MonitoringSpec{DetailedMonitoring: exportParam(m.DetailedMonitoring, e.implied)}
	logs := config.CloudWatchLogsSpec{
		Enabled:         exportParam(m.LogsEnabled, e.implied),
		RetentionInDays: exportParam(m.RetentionInDays, e.implied),
	}
	if l := omitZero(logs); l != nil {
		spec.Logs = &config.LogsSpec{CloudWatch: l}
	}
	if d := exportParam(m.DashboardsEnabled, e.implied); d != nil {
		spec.Dashboards = &config.DashboardsSpec{CloudWatch: &config.CloudWatchDashboardsSpec{Enabled: d}}
	}
	return omitZero(spec)
}
