package model

import "github.com/imamik/hpcgate/internal/config"

// EBS volume types.
const (
	VolumeStandard = "standard"
	VolumeIo1      = "io1"
	VolumeIo2      = "io2"
	VolumeGp2      = "gp2"
	VolumeGp3      = "gp3"
	VolumeSt1      = "st1"
	VolumeSc1      = "sc1"
)

// VolumeTypes lists the accepted EBS volume types.
var VolumeTypes = []string{VolumeStandard, VolumeIo1, VolumeIo2, VolumeGp2, VolumeGp3, VolumeSt1, VolumeSc1}

// VolumeRole selects the defaults applied to a VolumeSettings.
type VolumeRole int

const (
	RootVolumeRole VolumeRole = iota
	SharedVolumeRole
)

// VolumeSettings holds the EBS parameters shared by node group root volumes
// and EBS shared storage.
type VolumeSettings struct {
	VolumeType          Param[string]
	Size                Param[int]
	Encrypted           Param[bool]
	Iops                Param[int]
	Throughput          Param[int]
	KmsKeyId            Param[string]
	DeleteOnTermination Param[bool]
}

// resolveVolume fills defaults in declared order. Iops and Throughput
// defaults depend on the resolved VolumeType.
func resolveVolume(spec *config.VolumeSpec, role VolumeRole) VolumeSettings {
	if spec == nil {
		spec = &config.VolumeSpec{}
	}

	defaultType, defaultSize, defaultEncrypted := VolumeGp3, 35, true
	if role == SharedVolumeRole {
		defaultType, defaultSize, defaultEncrypted = VolumeGp2, 20, false
	}

	var v VolumeSettings
	v.VolumeType = resolve(spec.VolumeType, defaultType)
	v.Size = resolve(spec.Size, defaultSize)
	v.Encrypted = resolve(spec.Encrypted, defaultEncrypted)
	v.Iops = resolveFunc(spec.Iops, func() (int, bool) {
		return DefaultIops(v.VolumeType.Value)
	})
	v.Throughput = resolveFunc(spec.Throughput, func() (int, bool) {
		return DefaultThroughput(v.VolumeType.Value)
	})
	v.KmsKeyId = optional(spec.KmsKeyId)
	if role == RootVolumeRole {
		v.DeleteOnTermination = resolve(spec.DeleteOnTermination, true)
	} else {
		v.DeleteOnTermination = optional(spec.DeleteOnTermination)
	}
	return v
}

// DefaultIops returns the implied IOPS of a volume type, if it has one.
func DefaultIops(volumeType string) (int, bool) {
	switch volumeType {
	case VolumeGp3:
		return 3000, true
	case VolumeIo1, VolumeIo2:
		return 100, true
	default:
		return 0, false
	}
}

// DefaultThroughput returns the implied throughput in MiB/s of a volume type, if it has one.
func DefaultThroughput(volumeType string) (int, bool) {
	if volumeType == VolumeGp3 {
		return 125, true
	}
	return 0, false
}
