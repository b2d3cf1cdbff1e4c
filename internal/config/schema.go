package config

// Document is the decoded cluster specification as authored by the user.
//
// Optional scalars are pointers so the resource model can tell an absent
// field from an explicit zero value. Keys follow the PascalCase layout of
// the cluster file format.
type Document struct {
	Region        *string             `yaml:"Region,omitempty"`
	Image         *ImageSpec          `yaml:"Image,omitempty"`
	HeadNode      *HeadNodeSpec       `yaml:"HeadNode,omitempty"`
	Scheduling    *SchedulingSpec     `yaml:"Scheduling,omitempty"`
	SharedStorage []SharedStorageSpec `yaml:"SharedStorage,omitempty"`
	Monitoring    *MonitoringSpec     `yaml:"Monitoring,omitempty"`
	Iam           *ClusterIamSpec     `yaml:"Iam,omitempty"`
	Tags          []TagSpec           `yaml:"Tags,omitempty"`
	DevSettings   *DevSettingsSpec    `yaml:"DevSettings,omitempty"`
}

// ImageSpec selects the operating system and an optional custom AMI.
type ImageSpec struct {
	Os        string  `yaml:"Os,omitempty"`
	CustomAmi *string `yaml:"CustomAmi,omitempty"`
}

// HeadNodeSpec describes the head node.
type HeadNodeSpec struct {
	InstanceType                      string                  `yaml:"InstanceType,omitempty"`
	DisableSimultaneousMultithreading *bool                   `yaml:"DisableSimultaneousMultithreading,omitempty"`
	Networking                        *HeadNodeNetworkingSpec `yaml:"Networking,omitempty"`
	Ssh                               *SshSpec                `yaml:"Ssh,omitempty"`
	LocalStorage                      *LocalStorageSpec       `yaml:"LocalStorage,omitempty"`
	Dcv                               *DcvSpec                `yaml:"Dcv,omitempty"`
	CustomActions                     *CustomActionsSpec      `yaml:"CustomActions,omitempty"`
	Iam                               *IamSpec                `yaml:"Iam,omitempty"`
}

// HeadNodeNetworkingSpec places the head node in a single subnet.
type HeadNodeNetworkingSpec struct {
	SubnetId                 string     `yaml:"SubnetId,omitempty"`
	ElasticIp                *string    `yaml:"ElasticIp,omitempty"`
	SecurityGroups           []string   `yaml:"SecurityGroups,omitempty"`
	AdditionalSecurityGroups []string   `yaml:"AdditionalSecurityGroups,omitempty"`
	Proxy                    *ProxySpec `yaml:"Proxy,omitempty"`
}

// QueueNetworkingSpec places a queue in one or more subnets.
type QueueNetworkingSpec struct {
	SubnetIds                []string            `yaml:"SubnetIds,omitempty"`
	SecurityGroups           []string            `yaml:"SecurityGroups,omitempty"`
	AdditionalSecurityGroups []string            `yaml:"AdditionalSecurityGroups,omitempty"`
	PlacementGroup           *PlacementGroupSpec `yaml:"PlacementGroup,omitempty"`
	Proxy                    *ProxySpec          `yaml:"Proxy,omitempty"`
}

// PlacementGroupSpec enables a cluster placement group, optionally an existing one.
type PlacementGroupSpec struct {
	Enabled *bool   `yaml:"Enabled,omitempty"`
	Id      *string `yaml:"Id,omitempty"`
}

// ProxySpec routes outbound traffic through an HTTP proxy.
type ProxySpec struct {
	HttpProxyAddress *string `yaml:"HttpProxyAddress,omitempty"`
}

// SshSpec configures SSH access to the head node.
type SshSpec struct {
	KeyName    *string `yaml:"KeyName,omitempty"`
	AllowedIps *string `yaml:"AllowedIps,omitempty"`
}

// DcvSpec configures remote desktop access to the head node.
type DcvSpec struct {
	Enabled    *bool   `yaml:"Enabled,omitempty"`
	Port       *int    `yaml:"Port,omitempty"`
	AllowedIps *string `yaml:"AllowedIps,omitempty"`
}

// LocalStorageSpec holds the root and instance-store volumes of a node group.
type LocalStorageSpec struct {
	RootVolume      *VolumeSpec          `yaml:"RootVolume,omitempty"`
	EphemeralVolume *EphemeralVolumeSpec `yaml:"EphemeralVolume,omitempty"`
}

// VolumeSpec holds the EBS parameters shared by root volumes and EBS shared storage.
type VolumeSpec struct {
	VolumeType          *string `yaml:"VolumeType,omitempty"`
	Size                *int    `yaml:"Size,omitempty"`
	Iops                *int    `yaml:"Iops,omitempty"`
	Throughput          *int    `yaml:"Throughput,omitempty"`
	Encrypted           *bool   `yaml:"Encrypted,omitempty"`
	KmsKeyId            *string `yaml:"KmsKeyId,omitempty"`
	DeleteOnTermination *bool   `yaml:"DeleteOnTermination,omitempty"`
}

// EphemeralVolumeSpec configures where instance-store volumes are mounted.
type EphemeralVolumeSpec struct {
	MountDir *string `yaml:"MountDir,omitempty"`
}

// CustomActionsSpec holds lifecycle hook scripts.
type CustomActionsSpec struct {
	OnNodeStart      *ScriptSpec `yaml:"OnNodeStart,omitempty"`
	OnNodeConfigured *ScriptSpec `yaml:"OnNodeConfigured,omitempty"`
}

// ScriptSpec references a lifecycle hook script.
type ScriptSpec struct {
	Script string   `yaml:"Script,omitempty"`
	Args   []string `yaml:"Args,omitempty"`
}

// IamSpec configures the instance identity of a node group.
type IamSpec struct {
	InstanceRole          *string        `yaml:"InstanceRole,omitempty"`
	InstanceProfile       *string        `yaml:"InstanceProfile,omitempty"`
	S3Access              []S3AccessSpec `yaml:"S3Access,omitempty"`
	AdditionalIamPolicies []PolicySpec   `yaml:"AdditionalIamPolicies,omitempty"`
}

// S3AccessSpec grants a node group access to a bucket.
type S3AccessSpec struct {
	BucketName        string  `yaml:"BucketName,omitempty"`
	KeyName           *string `yaml:"KeyName,omitempty"`
	EnableWriteAccess *bool   `yaml:"EnableWriteAccess,omitempty"`
}

// PolicySpec attaches a managed policy by ARN.
type PolicySpec struct {
	Policy string `yaml:"Policy,omitempty"`
}

// SchedulingSpec selects the scheduler and declares its queues.
type SchedulingSpec struct {
	Scheduler     string             `yaml:"Scheduler,omitempty"`
	SlurmSettings *SlurmSettingsSpec `yaml:"SlurmSettings,omitempty"`
	Queues        []QueueSpec        `yaml:"Queues,omitempty"`
}

// SlurmSettingsSpec holds scheduler-wide Slurm settings.
type SlurmSettingsSpec struct {
	ScaledownIdletime *int `yaml:"ScaledownIdletime,omitempty"`
}

// QueueSpec describes a scheduler queue.
type QueueSpec struct {
	Name             string                `yaml:"Name,omitempty"`
	CapacityType     *string               `yaml:"CapacityType,omitempty"`
	Networking       *QueueNetworkingSpec  `yaml:"Networking,omitempty"`
	ComputeSettings  *ComputeSettingsSpec  `yaml:"ComputeSettings,omitempty"`
	ComputeResources []ComputeResourceSpec `yaml:"ComputeResources,omitempty"`
	CustomActions    *CustomActionsSpec    `yaml:"CustomActions,omitempty"`
	Iam              *IamSpec              `yaml:"Iam,omitempty"`
}

// ComputeSettingsSpec holds per-queue compute node settings.
type ComputeSettingsSpec struct {
	LocalStorage *LocalStorageSpec `yaml:"LocalStorage,omitempty"`
}

// ComputeResourceSpec describes one homogeneous set of compute nodes.
type ComputeResourceSpec struct {
	Name                              string                         `yaml:"Name,omitempty"`
	InstanceType                      *string                        `yaml:"InstanceType,omitempty"`
	Instances                         []InstanceSpec                 `yaml:"Instances,omitempty"`
	MinCount                          *int                           `yaml:"MinCount,omitempty"`
	MaxCount                          *int                           `yaml:"MaxCount,omitempty"`
	DisableSimultaneousMultithreading *bool                          `yaml:"DisableSimultaneousMultithreading,omitempty"`
	Efa                               *EfaSpec                       `yaml:"Efa,omitempty"`
	CapacityReservationTarget         *CapacityReservationTargetSpec `yaml:"CapacityReservationTarget,omitempty"`
}

// InstanceSpec is one entry of a flexible instance type list.
type InstanceSpec struct {
	InstanceType string `yaml:"InstanceType,omitempty"`
}

// EfaSpec enables Elastic Fabric Adapter networking.
type EfaSpec struct {
	Enabled    *bool `yaml:"Enabled,omitempty"`
	GdrSupport *bool `yaml:"GdrSupport,omitempty"`
}

// CapacityReservationTargetSpec targets an on-demand capacity reservation.
type CapacityReservationTargetSpec struct {
	CapacityReservationId *string `yaml:"CapacityReservationId,omitempty"`
}

// SharedStorageSpec declares one shared file system. StorageType selects
// which settings block applies.
type SharedStorageSpec struct {
	Name              string                 `yaml:"Name,omitempty"`
	MountDir          string                 `yaml:"MountDir,omitempty"`
	StorageType       string                 `yaml:"StorageType,omitempty"`
	EbsSettings       *EbsSettingsSpec       `yaml:"EbsSettings,omitempty"`
	EfsSettings       *EfsSettingsSpec       `yaml:"EfsSettings,omitempty"`
	FsxLustreSettings *FsxLustreSettingsSpec `yaml:"FsxLustreSettings,omitempty"`
}

// EbsSettingsSpec configures an EBS shared volume.
type EbsSettingsSpec struct {
	VolumeSpec `yaml:",inline"`
	VolumeId   *string `yaml:"VolumeId,omitempty"`
	SnapshotId *string `yaml:"SnapshotId,omitempty"`
}

// EfsSettingsSpec configures an EFS file system.
type EfsSettingsSpec struct {
	PerformanceMode       *string `yaml:"PerformanceMode,omitempty"`
	ThroughputMode        *string `yaml:"ThroughputMode,omitempty"`
	ProvisionedThroughput *int    `yaml:"ProvisionedThroughput,omitempty"`
	Encrypted             *bool   `yaml:"Encrypted,omitempty"`
	FileSystemId          *string `yaml:"FileSystemId,omitempty"`
}

// FsxLustreSettingsSpec configures an FSx for Lustre file system.
type FsxLustreSettingsSpec struct {
	DeploymentType           *string `yaml:"DeploymentType,omitempty"`
	StorageCapacity          *int    `yaml:"StorageCapacity,omitempty"`
	StorageType              *string `yaml:"StorageType,omitempty"`
	PerUnitStorageThroughput *int    `yaml:"PerUnitStorageThroughput,omitempty"`
	FileSystemId             *string `yaml:"FileSystemId,omitempty"`
	ImportPath               *string `yaml:"ImportPath,omitempty"`
	ExportPath               *string `yaml:"ExportPath,omitempty"`
}

// MonitoringSpec configures CloudWatch logs and dashboards.
type MonitoringSpec struct {
	DetailedMonitoring *bool           `yaml:"DetailedMonitoring,omitempty"`
	Logs               *LogsSpec       `yaml:"Logs,omitempty"`
	Dashboards         *DashboardsSpec `yaml:"Dashboards,omitempty"`
}

// LogsSpec wraps the CloudWatch logs settings.
type LogsSpec struct {
	CloudWatch *CloudWatchLogsSpec `yaml:"CloudWatch,omitempty"`
}

// CloudWatchLogsSpec configures log shipping.
type CloudWatchLogsSpec struct {
	Enabled         *bool `yaml:"Enabled,omitempty"`
	RetentionInDays *int  `yaml:"RetentionInDays,omitempty"`
}

// DashboardsSpec wraps the CloudWatch dashboard settings.
type DashboardsSpec struct {
	CloudWatch *CloudWatchDashboardsSpec `yaml:"CloudWatch,omitempty"`
}

// CloudWatchDashboardsSpec toggles the cluster dashboard.
type CloudWatchDashboardsSpec struct {
	Enabled *bool `yaml:"Enabled,omitempty"`
}

// ClusterIamSpec holds cluster-wide IAM settings.
type ClusterIamSpec struct {
	PermissionsBoundary *string    `yaml:"PermissionsBoundary,omitempty"`
	Roles               *RolesSpec `yaml:"Roles,omitempty"`
}

// RolesSpec overrides roles used by cluster-managed functions.
type RolesSpec struct {
	LambdaFunctionsRole *string `yaml:"LambdaFunctionsRole,omitempty"`
}

// TagSpec is a user tag propagated to cluster resources.
type TagSpec struct {
	Key   string `yaml:"Key"`
	Value string `yaml:"Value"`
}

// DevSettingsSpec overrides package locations for development builds.
type DevSettingsSpec struct {
	ClusterTemplate    *string `yaml:"ClusterTemplate,omitempty"`
	NodePackage        *string `yaml:"NodePackage,omitempty"`
	AwsBatchCliPackage *string `yaml:"AwsBatchCliPackage,omitempty"`
}
