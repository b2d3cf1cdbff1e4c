package validators

import (
	"github.com/shopspring/decimal"

	"github.com/imamik/hpcgate/internal/model"
)

type bounds struct {
	min, max int
}

// ebsSizeBounds are the allowed volume sizes in GiB per volume type.
var ebsSizeBounds = map[string]bounds{
	model.VolumeStandard: {1, 1024},
	model.VolumeIo1:      {4, 16384},
	model.VolumeIo2:      {4, 65536},
	model.VolumeGp2:      {1, 16384},
	model.VolumeGp3:      {1, 16384},
	model.VolumeSt1:      {500, 16384},
	model.VolumeSc1:      {500, 16384},
}

// ebsIopsBounds are the allowed provisioned IOPS per volume type, with the
// maximum IOPS per GiB.
var ebsIopsBounds = map[string]struct {
	bounds
	perGiB int64
}{
	model.VolumeIo1: {bounds{100, 64000}, 50},
	model.VolumeIo2: {bounds{100, 256000}, 1000},
	model.VolumeGp3: {bounds{3000, 16000}, 500},
}

var (
	gp3Throughput          = bounds{125, 1000}
	maxThroughputIopsRatio = decimal.RequireFromString("0.25")
)

// EbsVolumeTypeSize checks the volume size against its type.
func EbsVolumeTypeSize(volumeType string, size int) []Result {
	c := newCollector(TypeEbsVolumeTypeSize)
	b, ok := ebsSizeBounds[volumeType]
	if !ok {
		return nil
	}
	if size > b.max {
		c.errorf("The size of %s volumes can not exceed %d GiB", volumeType, b.max)
	} else if size < b.min {
		c.errorf("The size of %s volumes must be at least %d GiB", volumeType, b.min)
	}
	return c.results
}

// EbsVolumeIops checks provisioned IOPS against the volume type and size.
func EbsVolumeIops(volumeType string, size int, iops model.Param[int]) []Result {
	c := newCollector(TypeEbsVolumeIops)
	if !iops.Set {
		return nil
	}
	b, ok := ebsIopsBounds[volumeType]
	if !ok {
		c.errorf("IOPS can not be set when provisioning %s volumes.", volumeType)
		return c.results
	}
	if iops.Value < b.min || iops.Value > b.max {
		c.errorf("IOPS rate must be between %d and %d when provisioning %s volumes.", b.min, b.max, volumeType)
	} else if size > 0 {
		ratio := decimal.NewFromInt(int64(iops.Value)).Div(decimal.NewFromInt(int64(size)))
		if ratio.GreaterThan(decimal.NewFromInt(b.perGiB)) {
			c.errorf("IOPS to volume size ratio of %s is too high; maximum is %d.", ratio.Round(2).String(), b.perGiB)
		}
	}
	return c.results
}

// EbsVolumeThroughput checks provisioned throughput in MiB/s.
func EbsVolumeThroughput(volumeType string, throughput model.Param[int]) []Result {
	c := newCollector(TypeEbsVolumeThroughput)
	if !throughput.Set {
		return nil
	}
	if volumeType != model.VolumeGp3 {
		c.errorf("Throughput can only be set when provisioning gp3 volumes.")
		return c.results
	}
	if throughput.Value < gp3Throughput.min || throughput.Value > gp3Throughput.max {
		c.errorf("Throughput must be between %d MB/s and %d MB/s when provisioning %s volumes.",
			gp3Throughput.min, gp3Throughput.max, volumeType)
	}
	return c.results
}

// EbsVolumeThroughputIops checks the throughput to IOPS ratio of gp3 volumes.
func EbsVolumeThroughputIops(volumeType string, iops, throughput int) []Result {
	c := newCollector(TypeEbsVolumeThroughputIops)
	if volumeType != model.VolumeGp3 || iops <= 0 || throughput <= 0 {
		return nil
	}
	ratio := decimal.NewFromInt(int64(throughput)).Div(decimal.NewFromInt(int64(iops)))
	if ratio.GreaterThan(maxThroughputIopsRatio) {
		c.errorf("Throughput to IOPS ratio of %s is too high; maximum is %s.", ratio.Round(4).String(), maxThroughputIopsRatio)
	}
	return c.results
}

// EbsKmsKey checks that a KMS key is only given for encrypted volumes.
func EbsKmsKey(kmsKeyID model.Param[string], encrypted bool) []Result {
	c := newCollector(TypeEbsKmsKey)
	if kmsKeyID.Set && !encrypted {
		c.errorf("Kms Key Id %s is specified, the encrypted state must be True.", kmsKeyID.Value)
	}
	return c.results
}
