package testing

import (
	"gopkg.in/yaml.v3"

	"github.com/imamik/hpcgate/internal/config"
	"github.com/imamik/hpcgate/internal/util/ptr"
)

// Identifiers used by the default document and the standard fake.
const (
	DefaultRegion       = "us-east-1"
	HeadNodeSubnet      = "subnet-head0001"
	ComputeSubnetA      = "subnet-aaaa0001"
	ComputeSubnetB      = "subnet-bbbb0001"
	ComputeSubnetA2     = "subnet-aaaa0002"
	EfaSecurityGroup    = "sg-efa00001"
	PlainSecurityGroup  = "sg-plain0001"
	CustomImage         = "ami-0123456789abcdef0"
	ReservationZoneA    = "cr-zonea0001"
	DefaultQueue        = "compute"
	DefaultComputeGroup = "cr1"
)

// DocumentBuilder provides a fluent interface for constructing cluster documents.
// Each method returns a new builder (immutable) for chaining.
type DocumentBuilder struct {
	doc config.Document
}

// NewDocumentBuilder creates a builder holding a minimal valid document:
// one slurm queue with one compute resource, no optional fields set.
func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{
		doc: config.Document{
			Region: ptr.String(DefaultRegion),
			Image:  &config.ImageSpec{Os: "alinux2"},
			HeadNode: &config.HeadNodeSpec{
				InstanceType: "c5.xlarge",
				Networking:   &config.HeadNodeNetworkingSpec{SubnetId: HeadNodeSubnet},
			},
			Scheduling: &config.SchedulingSpec{
				Scheduler: "slurm",
				Queues: []config.QueueSpec{{
					Name:       DefaultQueue,
					Networking: &config.QueueNetworkingSpec{SubnetIds: []string{ComputeSubnetA}},
					ComputeResources: []config.ComputeResourceSpec{{
						Name:         DefaultComputeGroup,
						InstanceType: ptr.String("c5.xlarge"),
					}},
				}},
			},
		},
	}
}

// WithOs sets the operating system.
func (b *DocumentBuilder) WithOs(os string) *DocumentBuilder {
	nb := b.clone()
	nb.doc.Image.Os = os
	return nb
}

// WithScheduler sets the scheduler.
func (b *DocumentBuilder) WithScheduler(scheduler string) *DocumentBuilder {
	nb := b.clone()
	nb.doc.Scheduling.Scheduler = scheduler
	return nb
}

// WithHeadNodeInstanceType sets the head node instance type.
func (b *DocumentBuilder) WithHeadNodeInstanceType(instanceType string) *DocumentBuilder {
	nb := b.clone()
	nb.doc.HeadNode.InstanceType = instanceType
	return nb
}

// WithQueue appends a queue.
func (b *DocumentBuilder) WithQueue(q config.QueueSpec) *DocumentBuilder {
	nb := b.clone()
	nb.doc.Scheduling.Queues = append(nb.doc.Scheduling.Queues, q)
	return nb
}

// WithComputeResource appends a compute resource to the named queue.
func (b *DocumentBuilder) WithComputeResource(queue string, cr config.ComputeResourceSpec) *DocumentBuilder {
	nb := b.clone()
	for i := range nb.doc.Scheduling.Queues {
		if nb.doc.Scheduling.Queues[i].Name == queue {
			q := &nb.doc.Scheduling.Queues[i]
			q.ComputeResources = append(q.ComputeResources, cr)
		}
	}
	return nb
}

// WithSharedStorage appends a shared storage entry.
func (b *DocumentBuilder) WithSharedStorage(s config.SharedStorageSpec) *DocumentBuilder {
	nb := b.clone()
	nb.doc.SharedStorage = append(nb.doc.SharedStorage, s)
	return nb
}

// WithEbs appends an EBS shared volume with no settings.
func (b *DocumentBuilder) WithEbs(name, mountDir string) *DocumentBuilder {
	return b.WithSharedStorage(config.SharedStorageSpec{Name: name, MountDir: mountDir, StorageType: "Ebs"})
}

// WithEfs appends an EFS file system with no settings.
func (b *DocumentBuilder) WithEfs(name, mountDir string) *DocumentBuilder {
	return b.WithSharedStorage(config.SharedStorageSpec{Name: name, MountDir: mountDir, StorageType: "Efs"})
}

// WithFsx appends an FSx for Lustre file system with no settings.
func (b *DocumentBuilder) WithFsx(name, mountDir string) *DocumentBuilder {
	return b.WithSharedStorage(config.SharedStorageSpec{Name: name, MountDir: mountDir, StorageType: "FsxLustre"})
}

// WithTag appends a cluster tag.
func (b *DocumentBuilder) WithTag(key, value string) *DocumentBuilder {
	nb := b.clone()
	nb.doc.Tags = append(nb.doc.Tags, config.TagSpec{Key: key, Value: value})
	return nb
}

// Mutate applies fn to a copy of the document.
func (b *DocumentBuilder) Mutate(fn func(doc *config.Document)) *DocumentBuilder {
	nb := b.clone()
	fn(&nb.doc)
	return nb
}

// Build returns a deep copy of the constructed document.
func (b *DocumentBuilder) Build() *config.Document {
	doc := b.clone().doc
	return &doc
}

// clone creates a deep copy of the builder for immutability.
func (b *DocumentBuilder) clone() *DocumentBuilder {
	data, err := yaml.Marshal(&b.doc)
	if err != nil {
		panic(err)
	}
	var doc config.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		panic(err)
	}
	return &DocumentBuilder{doc: doc}
}
