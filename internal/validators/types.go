package validators

import (
	"fmt"
	"strings"
)

// Type identifies a validator. Suppression rules are sets of types.
type Type int

const (
	TypeComputeResourceSize Type = iota + 1
	TypeMaxCount
	TypeQueueName
	TypeComputeResourceName
	TypeSharedStorageName
	TypeInstanceType
	TypeImage
	TypeSecurityGroups
	TypeArchitectureOs
	TypeSchedulerOs
	TypeInstanceArchitectureCompatibility
	TypeDisableSmtArchitecture
	TypeEfaOsArchitecture
	TypeEfa
	TypeEfaSecurityGroup
	TypeEfaPlacementGroup
	TypeEfaMultiAz
	TypeMultiAzPlacementGroup
	TypeQueueSubnets
	TypeSubnets
	TypeInstancesCpu
	TypeInstancesEfa
	TypeInstancesNetworking
	TypeDuplicateInstanceType
	TypeNumberOfStorage
	TypeDuplicateMountDir
	TypeOverlappingMountDir
	TypeSharedStorageMountDir
	TypeEbsVolumeTypeSize
	TypeEbsVolumeIops
	TypeEbsVolumeThroughput
	TypeEbsVolumeThroughputIops
	TypeEbsKmsKey
	TypeFsxStorageCapacity
	TypeCapacityReservation
	TypeTagKey
	TypeIamRoleComposition
	TypeUrl
	TypeDcv
	TypeLogRetention
)

// typeNames are the stable names used in reports and suppression lists.
var typeNames = map[Type]string{
	TypeComputeResourceSize:               "ComputeResourceSizeValidator",
	TypeMaxCount:                          "MaxCountValidator",
	TypeQueueName:                         "QueueNameValidator",
	TypeComputeResourceName:               "ComputeResourceNameValidator",
	TypeSharedStorageName:                 "SharedStorageNameValidator",
	TypeInstanceType:                      "InstanceTypeValidator",
	TypeImage:                             "ImageValidator",
	TypeSecurityGroups:                    "SecurityGroupsValidator",
	TypeArchitectureOs:                    "ArchitectureOsValidator",
	TypeSchedulerOs:                       "SchedulerOsValidator",
	TypeInstanceArchitectureCompatibility: "InstanceArchitectureCompatibilityValidator",
	TypeDisableSmtArchitecture:            "DisableSimultaneousMultithreadingArchitectureValidator",
	TypeEfaOsArchitecture:                 "EfaOsArchitectureValidator",
	TypeEfa:                               "EfaValidator",
	TypeEfaSecurityGroup:                  "EfaSecurityGroupValidator",
	TypeEfaPlacementGroup:                 "EfaPlacementGroupValidator",
	TypeEfaMultiAz:                        "EfaMultiAzValidator",
	TypeMultiAzPlacementGroup:             "MultiAzPlacementGroupValidator",
	TypeQueueSubnets:                      "QueueSubnetsValidator",
	TypeSubnets:                           "SubnetsValidator",
	TypeInstancesCpu:                      "InstancesCPUValidator",
	TypeInstancesEfa:                      "InstancesEFAValidator",
	TypeInstancesNetworking:               "InstancesNetworkingValidator",
	TypeDuplicateInstanceType:             "DuplicateInstanceTypeValidator",
	TypeNumberOfStorage:                   "NumberOfStorageValidator",
	TypeDuplicateMountDir:                 "DuplicateMountDirValidator",
	TypeOverlappingMountDir:               "OverlappingMountDirValidator",
	TypeSharedStorageMountDir:             "SharedStorageMountDirValidator",
	TypeEbsVolumeTypeSize:                 "EbsVolumeTypeSizeValidator",
	TypeEbsVolumeIops:                     "EbsVolumeIopsValidator",
	TypeEbsVolumeThroughput:               "EbsVolumeThroughputValidator",
	TypeEbsVolumeThroughputIops:           "EbsVolumeThroughputIopsValidator",
	TypeEbsKmsKey:                         "EbsVolumeKmsKeyIdValidator",
	TypeFsxStorageCapacity:                "FsxStorageCapacityValidator",
	TypeCapacityReservation:               "CapacityReservationValidator",
	TypeTagKey:                            "TagKeyValidator",
	TypeIamRoleComposition:                "IamRoleCompositionValidator",
	TypeUrl:                               "UrlValidator",
	TypeDcv:                               "DcvValidator",
	TypeLogRetention:                      "LogRetentionValidator",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, n := range typeNames {
		m[n] = t
	}
	return m
}()

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType returns the validator type with the given name. Names are
// case sensitive.
func ParseType(name string) (Type, error) {
	if t, ok := typesByName[name]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown validator type %q", name)
}

// Types returns every validator type in catalog order.
func Types() []Type {
	out := make([]Type, 0, len(typeNames))
	for t := TypeComputeResourceSize; t <= TypeLogRetention; t++ {
		out = append(out, t)
	}
	return out
}

// TypeNames returns the name of every validator type in catalog order.
func TypeNames() []string {
	types := Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	v, err := ParseType(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
