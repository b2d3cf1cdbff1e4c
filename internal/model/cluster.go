package model

// Scheduler names.
const (
	SchedulerSlurm    = "slurm"
	SchedulerAwsBatch = "awsbatch"
)

// Capacity types.
const (
	CapacityOnDemand = "ONDEMAND"
	CapacitySpot     = "SPOT"
)

// Operating systems accepted in Image.Os.
var SupportedOses = []string{
	"alinux2", "alinux2023", "centos7", "centos8", "rhel8",
	"ubuntu1804", "ubuntu2004", "ubuntu2204",
}

// Default values that are referenced outside this package.
const (
	DefaultAllowedIps      = "0.0.0.0/0"
	DefaultDcvPort         = 8443
	DefaultEphemeralMount  = "/scratch"
	DefaultMinCount        = 0
	DefaultMaxCount        = 10
	DefaultRetentionInDays = 14
	DefaultScaledownIdle   = 10
	DefaultFsxStorageSize  = 1200
	DefaultFsxDeployment   = "SCRATCH_2"
	DefaultFsxStorageType  = "SSD"
	DefaultEfsPerformance  = "generalPurpose"
	DefaultEfsThroughput   = "bursting"
	DefaultCapacityType    = CapacityOnDemand
)

// Cluster is the root of the resource tree.
type Cluster struct {
	base
	Region        Param[string]
	Image         *Image
	HeadNode      *HeadNode
	Scheduling    *Scheduling
	SharedStorage []*SharedStorage
	Monitoring    *Monitoring
	Iam           *ClusterIam
	Tags          *Tags
	DevSettings   *DevSettings
}

// Image selects the operating system.
type Image struct {
	base
	Os        Param[string]
	CustomAmi Param[string]
}

// HeadNode is the head node group.
type HeadNode struct {
	base
	InstanceType  Param[string]
	DisableSMT    Param[bool]
	SshKeyName    Param[string]
	SshAllowedIps Param[string]
	Networking    *HeadNodeNetworking
	LocalStorage  *LocalStorage
	Dcv           *Dcv
	CustomActions *CustomActions
	Iam           *Iam
	architecture  memo[string]
	vcpus         memo[int]
}

// HeadNodeNetworking places the head node.
type HeadNodeNetworking struct {
	base
	SubnetId                 Param[string]
	ElasticIp                Param[string]
	SecurityGroups           []string
	AdditionalSecurityGroups []string
	HttpProxyAddress         Param[string]
}

// AllSecurityGroups returns security groups followed by additional security groups.
func (n *HeadNodeNetworking) AllSecurityGroups() []string {
	return append(append([]string{}, n.SecurityGroups...), n.AdditionalSecurityGroups...)
}

// QueueNetworking places a queue.
type QueueNetworking struct {
	base
	SubnetIds                []string
	SecurityGroups           []string
	AdditionalSecurityGroups []string
	PlacementGroupEnabled    Param[bool]
	PlacementGroupId         Param[string]
	HttpProxyAddress         Param[string]
}

// AllSecurityGroups returns security groups followed by additional security groups.
func (n *QueueNetworking) AllSecurityGroups() []string {
	return append(append([]string{}, n.SecurityGroups...), n.AdditionalSecurityGroups...)
}

// MultiAz reports whether the queue spans more than one subnet.
func (n *QueueNetworking) MultiAz() bool {
	return len(n.SubnetIds) > 1
}

// LocalStorage holds the root volume and the instance-store mount point.
type LocalStorage struct {
	base
	RootVolume        *RootVolume
	EphemeralMountDir Param[string]
}

// RootVolume is a node group root volume.
type RootVolume struct {
	base
	VolumeSettings
}

// Dcv configures remote desktop access to the head node.
type Dcv struct {
	base
	Enabled    Param[bool]
	Port       Param[int]
	AllowedIps Param[string]
}

// Script is a lifecycle hook.
type Script struct {
	Script string
	Args   []string
}

// CustomActions holds lifecycle hooks of a node group.
type CustomActions struct {
	base
	OnNodeStart      *Script
	OnNodeConfigured *Script
}

// Scripts returns the declared hooks in a stable order.
func (c *CustomActions) Scripts() []*Script {
	var out []*Script
	for _, s := range []*Script{c.OnNodeStart, c.OnNodeConfigured} {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// S3Access grants bucket access to a node group.
type S3Access struct {
	BucketName        string
	KeyName           Param[string]
	EnableWriteAccess Param[bool]
}

// Iam is the instance identity of a node group.
type Iam struct {
	base
	InstanceRole          Param[string]
	InstanceProfile       Param[string]
	S3Access              []S3Access
	AdditionalIamPolicies []string
}

// Scheduling holds the scheduler and its queues.
type Scheduling struct {
	base
	Scheduler         Param[string]
	ScaledownIdletime Param[int]
	Queues            []*Queue
}

// Queue is a scheduler queue.
type Queue struct {
	base
	CapacityType     Param[string]
	Networking       *QueueNetworking
	LocalStorage     *LocalStorage
	CustomActions    *CustomActions
	Iam              *Iam
	ComputeResources []*ComputeResource
}

// ComputeResource is a homogeneous set of compute nodes in a queue.
type ComputeResource struct {
	base
	QueueName             string
	InstanceType          Param[string]
	Instances             []string
	MinCount              Param[int]
	MaxCount              Param[int]
	DisableSMT            Param[bool]
	EfaEnabled            Param[bool]
	EfaGdrSupport         Param[bool]
	CapacityReservationId Param[string]
	architecture          memo[string]
	vcpus                 memo[int]
}

// InstanceTypes returns the single instance type or the flexible list.
func (c *ComputeResource) InstanceTypes() []string {
	if c.InstanceType.Set {
		return []string{c.InstanceType.Value}
	}
	return append([]string{}, c.Instances...)
}

// PrimaryInstanceType returns the instance type computed attributes derive from.
func (c *ComputeResource) PrimaryInstanceType() string {
	types := c.InstanceTypes()
	if len(types) == 0 {
		return ""
	}
	return types[0]
}

// StorageKind tags a shared storage entry.
type StorageKind int

const (
	BlockVolume StorageKind = iota + 1
	NetworkFileSystem
	ParallelFileSystem
)

// String returns the short storage name used in messages.
func (k StorageKind) String() string {
	switch k {
	case BlockVolume:
		return "EBS"
	case NetworkFileSystem:
		return "EFS"
	case ParallelFileSystem:
		return "FSx"
	default:
		return "unknown"
	}
}

// StorageType returns the document value selecting this kind.
func (k StorageKind) StorageType() string {
	switch k {
	case BlockVolume:
		return "Ebs"
	case NetworkFileSystem:
		return "Efs"
	case ParallelFileSystem:
		return "FsxLustre"
	default:
		return ""
	}
}

// StorageKinds returns every kind in a stable order.
func StorageKinds() []StorageKind {
	return []StorageKind{BlockVolume, NetworkFileSystem, ParallelFileSystem}
}

// SharedStorage is one shared file system. Exactly one of Ebs, Efs and Fsx
// is non-nil, matching StorageKind.
type SharedStorage struct {
	base
	kind     StorageKind
	MountDir Param[string]
	Ebs      *EbsSettings
	Efs      *EfsSettings
	Fsx      *FsxSettings
}

// StorageKind returns the kind assigned at build time.
func (s *SharedStorage) StorageKind() StorageKind {
	return s.kind
}

// EbsSettings configures an EBS shared volume.
type EbsSettings struct {
	VolumeSettings
	VolumeId   Param[string]
	SnapshotId Param[string]
}

// EfsSettings configures an EFS file system.
type EfsSettings struct {
	PerformanceMode       Param[string]
	ThroughputMode        Param[string]
	ProvisionedThroughput Param[int]
	Encrypted             Param[bool]
	FileSystemId          Param[string]
}

// FsxSettings configures an FSx for Lustre file system.
type FsxSettings struct {
	DeploymentType           Param[string]
	StorageCapacity          Param[int]
	StorageType              Param[string]
	PerUnitStorageThroughput Param[int]
	FileSystemId             Param[string]
	ImportPath               Param[string]
	ExportPath               Param[string]
}

// Monitoring configures CloudWatch.
type Monitoring struct {
	base
	DetailedMonitoring Param[bool]
	LogsEnabled        Param[bool]
	RetentionInDays    Param[int]
	DashboardsEnabled  Param[bool]
}

// ClusterIam holds cluster-wide IAM settings.
type ClusterIam struct {
	base
	PermissionsBoundary Param[string]
	LambdaFunctionsRole Param[string]
}

// Tag is a user tag.
type Tag struct {
	Key   string
	Value string
}

// Tags holds the cluster tags.
type Tags struct {
	base
	Items []Tag
}

// DevSettings overrides package locations.
type DevSettings struct {
	base
	ClusterTemplate    Param[string]
	NodePackage        Param[string]
	AwsBatchCliPackage Param[string]
}

// URLs returns the declared package locations.
func (d *DevSettings) URLs() []string {
	var out []string
	for _, p := range []Param[string]{d.ClusterTemplate, d.NodePackage, d.AwsBatchCliPackage} {
		if p.Set {
			out = append(out, p.Value)
		}
	}
	return out
}

// AllQueues returns the scheduler queues.
func (c *Cluster) AllQueues() []*Queue {
	if c.Scheduling == nil {
		return nil
	}
	return c.Scheduling.Queues
}

// AllComputeResources returns the compute resources of every queue in order.
func (c *Cluster) AllComputeResources() []*ComputeResource {
	var out []*ComputeResource
	for _, q := range c.AllQueues() {
		out = append(out, q.ComputeResources...)
	}
	return out
}

// QueueByName returns the queue with the given name, or nil.
func (c *Cluster) QueueByName(name string) *Queue {
	for _, q := range c.AllQueues() {
		if q.Name() == name {
			return q
		}
	}
	return nil
}

// MultiAzQueues reports whether any queue spans more than one subnet.
func (c *Cluster) MultiAzQueues() bool {
	for _, q := range c.AllQueues() {
		if q.Networking.MultiAz() {
			return true
		}
	}
	return false
}
