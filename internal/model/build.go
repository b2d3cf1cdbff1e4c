package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/imamik/hpcgate/internal/config"
	"github.com/imamik/hpcgate/internal/util/naming"
)

// Violation is a schema invariant broken by the document.
type Violation struct {
	Path    string
	Message string
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + ": " + v.Message
}

// SchemaError reports documents that cannot form a valid resource tree.
// It aborts a run before any validator executes.
type SchemaError struct {
	Violations []Violation
}

func (e *SchemaError) Error() string {
	if len(e.Violations) == 1 {
		return "invalid cluster specification: " + e.Violations[0].String()
	}
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = "  - " + v.String()
	}
	return fmt.Sprintf("invalid cluster specification (%d problems):\n%s", len(e.Violations), strings.Join(msgs, "\n"))
}

// IsSchemaError reports whether err is or wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// Build resolves a document into a resource tree. Every violation is
// collected and returned in one *SchemaError.
func Build(doc *config.Document) (*Cluster, error) {
	if doc == nil {
		return nil, &SchemaError{Violations: []Violation{{Message: "document is empty"}}}
	}

	b := &builder{}
	c := b.cluster(doc)
	if len(b.violations) > 0 {
		return nil, &SchemaError{Violations: b.violations}
	}
	return c, nil
}

type builder struct {
	violations []Violation
}

func (b *builder) fail(path, format string, args ...any) {
	b.violations = append(b.violations, Violation{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (b *builder) require(path, field string, p Param[string]) {
	if !p.Set {
		b.fail(naming.Field(path, field), "required field is missing")
	}
}

func (b *builder) oneOf(path, field string, p Param[string], allowed []string) {
	if p.Set && !slices.Contains(allowed, p.Value) {
		b.fail(naming.Field(path, field), "unsupported value %q, must be one of: %s", p.Value, strings.Join(allowed, ", "))
	}
}

// unique reports every name that appears more than once in a scope.
func (b *builder) unique(path, what string, names []string) {
	seen := make(map[string]bool, len(names))
	reported := make(map[string]bool)
	for _, n := range names {
		if n == "" {
			continue
		}
		if seen[n] && !reported[n] {
			b.fail(path, "duplicate %s %q", what, n)
			reported[n] = true
		}
		seen[n] = true
	}
}

func (b *builder) cluster(doc *config.Document) *Cluster {
	c := &Cluster{}
	c.init(KindCluster, naming.Root, naming.Root)
	c.Region = optional(doc.Region)

	c.Image = b.image(doc.Image)
	c.addChild(c.Image)

	c.HeadNode = b.headNode(doc.HeadNode)
	c.addChild(c.HeadNode)

	c.Scheduling = b.scheduling(doc.Scheduling)
	c.addChild(c.Scheduling)

	names := make([]string, 0, len(doc.SharedStorage))
	for i := range doc.SharedStorage {
		s := b.sharedStorage(&doc.SharedStorage[i], i)
		c.SharedStorage = append(c.SharedStorage, s)
		c.addChild(s)
		names = append(names, s.Name())
	}
	b.unique("SharedStorage", "shared storage name", names)

	c.Monitoring = b.monitoring(doc.Monitoring)
	c.addChild(c.Monitoring)

	if doc.Iam != nil {
		c.Iam = b.clusterIam(doc.Iam)
		c.addChild(c.Iam)
	}

	c.Tags = b.tags(doc.Tags)
	c.addChild(c.Tags)

	if doc.DevSettings != nil {
		c.DevSettings = b.devSettings(doc.DevSettings)
		c.addChild(c.DevSettings)
	}
	return c
}

func (b *builder) image(spec *config.ImageSpec) *Image {
	if spec == nil {
		spec = &config.ImageSpec{}
	}
	const path = "Image"
	img := &Image{}
	img.init(KindImage, path, path)
	img.Os = required(spec.Os)
	img.CustomAmi = optional(spec.CustomAmi)

	b.require(path, "Os", img.Os)
	b.oneOf(path, "Os", img.Os, SupportedOses)
	return img
}

func (b *builder) headNode(spec *config.HeadNodeSpec) *HeadNode {
	if spec == nil {
		spec = &config.HeadNodeSpec{}
	}
	const path = "HeadNode"
	h := &HeadNode{}
	h.init(KindHeadNode, path, path)

	h.InstanceType = required(spec.InstanceType)
	b.require(path, "InstanceType", h.InstanceType)
	h.DisableSMT = resolve(spec.DisableSimultaneousMultithreading, false)

	ssh := spec.Ssh
	if ssh == nil {
		ssh = &config.SshSpec{}
	}
	h.SshKeyName = optional(ssh.KeyName)
	h.SshAllowedIps = resolve(ssh.AllowedIps, DefaultAllowedIps)

	h.Networking = b.headNodeNetworking(spec.Networking, naming.Join(path, "Networking"))
	h.addChild(h.Networking)

	h.LocalStorage = b.localStorage(spec.LocalStorage, naming.Join(path, "LocalStorage"))
	h.addChild(h.LocalStorage)

	if spec.Dcv != nil {
		h.Dcv = b.dcv(spec.Dcv, naming.Join(path, "Dcv"))
		h.addChild(h.Dcv)
	}
	if spec.CustomActions != nil {
		h.CustomActions = b.customActions(spec.CustomActions, naming.Join(path, "CustomActions"))
		h.addChild(h.CustomActions)
	}
	if spec.Iam != nil {
		h.Iam = b.iam(spec.Iam, naming.Join(path, "Iam"))
		h.addChild(h.Iam)
	}
	return h
}

func (b *builder) headNodeNetworking(spec *config.HeadNodeNetworkingSpec, path string) *HeadNodeNetworking {
	if spec == nil {
		spec = &config.HeadNodeNetworkingSpec{}
	}
	n := &HeadNodeNetworking{}
	n.init(KindHeadNodeNetworking, "Networking", path)
	n.SubnetId = required(spec.SubnetId)
	b.require(path, "SubnetId", n.SubnetId)
	n.ElasticIp = optional(spec.ElasticIp)
	n.SecurityGroups = slices.Clone(spec.SecurityGroups)
	n.AdditionalSecurityGroups = slices.Clone(spec.AdditionalSecurityGroups)
	if spec.Proxy != nil {
		n.HttpProxyAddress = optional(spec.Proxy.HttpProxyAddress)
	}
	return n
}

func (b *builder) queueNetworking(spec *config.QueueNetworkingSpec, path string) *QueueNetworking {
	if spec == nil {
		spec = &config.QueueNetworkingSpec{}
	}
	n := &QueueNetworking{}
	n.init(KindQueueNetworking, "Networking", path)
	n.SubnetIds = slices.Clone(spec.SubnetIds)
	if len(n.SubnetIds) == 0 {
		b.fail(naming.Field(path, "SubnetIds"), "at least one subnet is required")
	}
	n.SecurityGroups = slices.Clone(spec.SecurityGroups)
	n.AdditionalSecurityGroups = slices.Clone(spec.AdditionalSecurityGroups)

	pg := spec.PlacementGroup
	if pg == nil {
		pg = &config.PlacementGroupSpec{}
	}
	n.PlacementGroupEnabled = resolve(pg.Enabled, false)
	n.PlacementGroupId = optional(pg.Id)
	if spec.Proxy != nil {
		n.HttpProxyAddress = optional(spec.Proxy.HttpProxyAddress)
	}
	return n
}

func (b *builder) localStorage(spec *config.LocalStorageSpec, path string) *LocalStorage {
	if spec == nil {
		spec = &config.LocalStorageSpec{}
	}
	ls := &LocalStorage{}
	ls.init(KindLocalStorage, "LocalStorage", path)

	rvPath := naming.Join(path, "RootVolume")
	rv := &RootVolume{VolumeSettings: resolveVolume(spec.RootVolume, RootVolumeRole)}
	rv.init(KindRootVolume, "RootVolume", rvPath)
	b.oneOf(rvPath, "VolumeType", rv.VolumeType, VolumeTypes)
	ls.RootVolume = rv
	ls.addChild(rv)

	var mount *string
	if spec.EphemeralVolume != nil {
		mount = spec.EphemeralVolume.MountDir
	}
	ls.EphemeralMountDir = resolve(mount, DefaultEphemeralMount)
	return ls
}

func (b *builder) dcv(spec *config.DcvSpec, path string) *Dcv {
	d := &Dcv{}
	d.init(KindDcv, "Dcv", path)
	d.Enabled = resolve(spec.Enabled, false)
	d.Port = resolve(spec.Port, DefaultDcvPort)
	d.AllowedIps = resolve(spec.AllowedIps, DefaultAllowedIps)
	return d
}

func (b *builder) customActions(spec *config.CustomActionsSpec, path string) *CustomActions {
	ca := &CustomActions{}
	ca.init(KindCustomActions, "CustomActions", path)
	script := func(s *config.ScriptSpec, field string) *Script {
		if s == nil {
			return nil
		}
		if s.Script == "" {
			b.fail(naming.Join(naming.Field(path, field), "Script"), "required field is missing")
		}
		return &Script{Script: s.Script, Args: slices.Clone(s.Args)}
	}
	ca.OnNodeStart = script(spec.OnNodeStart, "OnNodeStart")
	ca.OnNodeConfigured = script(spec.OnNodeConfigured, "OnNodeConfigured")
	return ca
}

func (b *builder) iam(spec *config.IamSpec, path string) *Iam {
	iam := &Iam{}
	iam.init(KindIam, "Iam", path)
	iam.InstanceRole = optional(spec.InstanceRole)
	iam.InstanceProfile = optional(spec.InstanceProfile)
	for i, s3 := range spec.S3Access {
		if s3.BucketName == "" {
			b.fail(naming.Join(naming.Index(path, "S3Access", i), "BucketName"), "required field is missing")
		}
		iam.S3Access = append(iam.S3Access, S3Access{
			BucketName:        s3.BucketName,
			KeyName:           optional(s3.KeyName),
			EnableWriteAccess: resolve(s3.EnableWriteAccess, false),
		})
	}
	for i, p := range spec.AdditionalIamPolicies {
		if p.Policy == "" {
			b.fail(naming.Join(naming.Index(path, "AdditionalIamPolicies", i), "Policy"), "required field is missing")
		}
		iam.AdditionalIamPolicies = append(iam.AdditionalIamPolicies, p.Policy)
	}
	return iam
}

func (b *builder) scheduling(spec *config.SchedulingSpec) *Scheduling {
	if spec == nil {
		spec = &config.SchedulingSpec{}
	}
	const path = "Scheduling"
	s := &Scheduling{}
	s.init(KindScheduling, path, path)
	s.Scheduler = required(spec.Scheduler)
	b.require(path, "Scheduler", s.Scheduler)
	b.oneOf(path, "Scheduler", s.Scheduler, []string{SchedulerSlurm, SchedulerAwsBatch})

	var idle *int
	if spec.SlurmSettings != nil {
		idle = spec.SlurmSettings.ScaledownIdletime
	}
	s.ScaledownIdletime = resolve(idle, DefaultScaledownIdle)

	if len(spec.Queues) == 0 {
		b.fail(naming.Field(path, "Queues"), "at least one queue is required")
	}
	names := make([]string, 0, len(spec.Queues))
	for i := range spec.Queues {
		q := b.queue(&spec.Queues[i], i)
		s.Queues = append(s.Queues, q)
		s.addChild(q)
		names = append(names, q.Name())
	}
	b.unique(naming.Field(path, "Queues"), "queue name", names)
	return s
}

func (b *builder) queue(spec *config.QueueSpec, index int) *Queue {
	path := naming.Queue(spec.Name)
	if spec.Name == "" {
		path = naming.Index("Scheduling", "Queues", index)
		b.fail(naming.Field(path, "Name"), "required field is missing")
	}
	q := &Queue{}
	q.init(KindQueue, spec.Name, path)

	q.CapacityType = resolve(spec.CapacityType, DefaultCapacityType)
	b.oneOf(path, "CapacityType", q.CapacityType, []string{CapacityOnDemand, CapacitySpot})

	q.Networking = b.queueNetworking(spec.Networking, naming.Join(path, "Networking"))
	q.addChild(q.Networking)

	var ls *config.LocalStorageSpec
	if spec.ComputeSettings != nil {
		ls = spec.ComputeSettings.LocalStorage
	}
	q.LocalStorage = b.localStorage(ls, naming.Join(path, "ComputeSettings/LocalStorage"))
	q.addChild(q.LocalStorage)

	if spec.CustomActions != nil {
		q.CustomActions = b.customActions(spec.CustomActions, naming.Join(path, "CustomActions"))
		q.addChild(q.CustomActions)
	}
	if spec.Iam != nil {
		q.Iam = b.iam(spec.Iam, naming.Join(path, "Iam"))
		q.addChild(q.Iam)
	}

	if len(spec.ComputeResources) == 0 {
		b.fail(naming.Field(path, "ComputeResources"), "at least one compute resource is required")
	}
	names := make([]string, 0, len(spec.ComputeResources))
	for i := range spec.ComputeResources {
		cr := b.computeResource(&spec.ComputeResources[i], spec.Name, path, i)
		q.ComputeResources = append(q.ComputeResources, cr)
		q.addChild(cr)
		names = append(names, cr.Name())
	}
	b.unique(naming.Field(path, "ComputeResources"), "compute resource name", names)
	return q
}

func (b *builder) computeResource(spec *config.ComputeResourceSpec, queue, queuePath string, index int) *ComputeResource {
	path := naming.Entry(queuePath, "ComputeResources", spec.Name)
	if spec.Name == "" {
		path = naming.Index(queuePath, "ComputeResources", index)
		b.fail(naming.Field(path, "Name"), "required field is missing")
	}
	cr := &ComputeResource{QueueName: queue}
	cr.init(KindComputeResource, spec.Name, path)

	cr.InstanceType = optional(spec.InstanceType)
	for i, inst := range spec.Instances {
		if inst.InstanceType == "" {
			b.fail(naming.Join(naming.Index(path, "Instances", i), "InstanceType"), "required field is missing")
			continue
		}
		cr.Instances = append(cr.Instances, inst.InstanceType)
	}
	switch {
	case cr.InstanceType.Set && len(spec.Instances) > 0:
		b.fail(path, "InstanceType and Instances cannot be used together")
	case !cr.InstanceType.Set && len(spec.Instances) == 0:
		b.fail(path, "one of InstanceType or Instances is required")
	case cr.InstanceType.Set && cr.InstanceType.Value == "":
		b.fail(naming.Field(path, "InstanceType"), "required field is missing")
	}

	cr.MinCount = resolve(spec.MinCount, DefaultMinCount)
	cr.MaxCount = resolve(spec.MaxCount, DefaultMaxCount)
	cr.DisableSMT = resolve(spec.DisableSimultaneousMultithreading, false)

	efa := spec.Efa
	if efa == nil {
		efa = &config.EfaSpec{}
	}
	cr.EfaEnabled = resolve(efa.Enabled, false)
	cr.EfaGdrSupport = resolve(efa.GdrSupport, false)

	if spec.CapacityReservationTarget != nil {
		cr.CapacityReservationId = optional(spec.CapacityReservationTarget.CapacityReservationId)
	}
	return cr
}

// storageKindOf maps a StorageType value to its kind.
func storageKindOf(storageType string) (StorageKind, bool) {
	for _, k := range StorageKinds() {
		if k.StorageType() == storageType {
			return k, true
		}
	}
	return 0, false
}

func (b *builder) sharedStorage(spec *config.SharedStorageSpec, index int) *SharedStorage {
	path := naming.SharedStorage(spec.Name)
	if spec.Name == "" {
		path = naming.Index("", "SharedStorage", index)
		b.fail(naming.Field(path, "Name"), "required field is missing")
	}
	s := &SharedStorage{}
	s.init(KindSharedStorage, spec.Name, path)

	s.MountDir = required(spec.MountDir)
	b.require(path, "MountDir", s.MountDir)

	kind, ok := storageKindOf(spec.StorageType)
	switch {
	case spec.StorageType == "":
		b.fail(naming.Field(path, "StorageType"), "required field is missing")
	case !ok:
		b.fail(naming.Field(path, "StorageType"), "unsupported value %q, must be one of: Ebs, Efs, FsxLustre", spec.StorageType)
	}
	s.kind = kind

	if spec.EbsSettings != nil && kind != BlockVolume {
		b.fail(naming.Field(path, "EbsSettings"), "cannot be used with StorageType %q", spec.StorageType)
	}
	if spec.EfsSettings != nil && kind != NetworkFileSystem {
		b.fail(naming.Field(path, "EfsSettings"), "cannot be used with StorageType %q", spec.StorageType)
	}
	if spec.FsxLustreSettings != nil && kind != ParallelFileSystem {
		b.fail(naming.Field(path, "FsxLustreSettings"), "cannot be used with StorageType %q", spec.StorageType)
	}

	switch kind {
	case BlockVolume:
		ebs := spec.EbsSettings
		if ebs == nil {
			ebs = &config.EbsSettingsSpec{}
		}
		s.Ebs = &EbsSettings{
			VolumeSettings: resolveVolume(&ebs.VolumeSpec, SharedVolumeRole),
			VolumeId:       optional(ebs.VolumeId),
			SnapshotId:     optional(ebs.SnapshotId),
		}
		b.oneOf(naming.Field(path, "EbsSettings"), "VolumeType", s.Ebs.VolumeType, VolumeTypes)
	case NetworkFileSystem:
		efs := spec.EfsSettings
		if efs == nil {
			efs = &config.EfsSettingsSpec{}
		}
		s.Efs = &EfsSettings{
			PerformanceMode:       resolve(efs.PerformanceMode, DefaultEfsPerformance),
			ThroughputMode:        resolve(efs.ThroughputMode, DefaultEfsThroughput),
			ProvisionedThroughput: optional(efs.ProvisionedThroughput),
			Encrypted:             resolve(efs.Encrypted, false),
			FileSystemId:          optional(efs.FileSystemId),
		}
		settings := naming.Field(path, "EfsSettings")
		b.oneOf(settings, "PerformanceMode", s.Efs.PerformanceMode, []string{"generalPurpose", "maxIO"})
		b.oneOf(settings, "ThroughputMode", s.Efs.ThroughputMode, []string{"bursting", "provisioned"})
	case ParallelFileSystem:
		fsx := spec.FsxLustreSettings
		if fsx == nil {
			fsx = &config.FsxLustreSettingsSpec{}
		}
		s.Fsx = &FsxSettings{
			DeploymentType:           resolve(fsx.DeploymentType, DefaultFsxDeployment),
			StorageCapacity:          resolve(fsx.StorageCapacity, DefaultFsxStorageSize),
			StorageType:              resolve(fsx.StorageType, DefaultFsxStorageType),
			PerUnitStorageThroughput: optional(fsx.PerUnitStorageThroughput),
			FileSystemId:             optional(fsx.FileSystemId),
			ImportPath:               optional(fsx.ImportPath),
			ExportPath:               optional(fsx.ExportPath),
		}
		settings := naming.Field(path, "FsxLustreSettings")
		b.oneOf(settings, "DeploymentType", s.Fsx.DeploymentType,
			[]string{"SCRATCH_1", "SCRATCH_2", "PERSISTENT_1", "PERSISTENT_2"})
		b.oneOf(settings, "StorageType", s.Fsx.StorageType, []string{"SSD", "HDD"})
	}
	return s
}

func (b *builder) monitoring(spec *config.MonitoringSpec) *Monitoring {
	if spec == nil {
		spec = &config.MonitoringSpec{}
	}
	m := &Monitoring{}
	m.init(KindMonitoring, "Monitoring", "Monitoring")
	m.DetailedMonitoring = resolve(spec.DetailedMonitoring, false)

	var logsEnabled *bool
	var retention *int
	if spec.Logs != nil && spec.Logs.CloudWatch != nil {
		logsEnabled = spec.Logs.CloudWatch.Enabled
		retention = spec.Logs.CloudWatch.RetentionInDays
	}
	m.LogsEnabled = resolve(logsEnabled, true)
	m.RetentionInDays = resolve(retention, DefaultRetentionInDays)

	var dashboards *bool
	if spec.Dashboards != nil && spec.Dashboards.CloudWatch != nil {
		dashboards = spec.Dashboards.CloudWatch.Enabled
	}
	m.DashboardsEnabled = resolve(dashboards, true)
	return m
}

func (b *builder) clusterIam(spec *config.ClusterIamSpec) *ClusterIam {
	iam := &ClusterIam{}
	iam.init(KindClusterIam, "Iam", "Iam")
	iam.PermissionsBoundary = optional(spec.PermissionsBoundary)
	if spec.Roles != nil {
		iam.LambdaFunctionsRole = optional(spec.Roles.LambdaFunctionsRole)
	}
	return iam
}

func (b *builder) tags(specs []config.TagSpec) *Tags {
	t := &Tags{}
	t.init(KindTags, "Tags", "Tags")
	keys := make([]string, 0, len(specs))
	for i, s := range specs {
		if s.Key == "" {
			b.fail(naming.Join(naming.Index("", "Tags", i), "Key"), "required field is missing")
		}
		t.Items = append(t.Items, Tag{Key: s.Key, Value: s.Value})
		keys = append(keys, s.Key)
	}
	b.unique("Tags", "tag key", keys)
	return t
}

func (b *builder) devSettings(spec *config.DevSettingsSpec) *DevSettings {
	d := &DevSettings{}
	d.init(KindDevSettings, "DevSettings", "DevSettings")
	d.ClusterTemplate = optional(spec.ClusterTemplate)
	d.NodePackage = optional(spec.NodePackage)
	d.AwsBatchCliPackage = optional(spec.AwsBatchCliPackage)
	return d
}
