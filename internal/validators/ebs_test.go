package validators

import (
	"testing"

	"github.com/imamik/hpcgate/internal/model"
)

func TestEbsVolumeTypeSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		volumeType string
		size       int
		want       []expectation
	}{
		{"gp2", 20, nil},
		{"standard", 1025, []expectation{errorWith("The size of standard volumes can not exceed 1024 GiB")}},
		{"io1", 3, []expectation{errorWith("The size of io1 volumes must be at least 4 GiB")}},
		{"io2", 65536, nil},
		{"st1", 499, []expectation{errorWith("must be at least 500 GiB")}},
		{"sc1", 16385, []expectation{errorWith("can not exceed 16384 GiB")}},
		{"unknown", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.volumeType, func(t *testing.T) {
			t.Parallel()
			assertResults(t, TypeEbsVolumeTypeSize, EbsVolumeTypeSize(tt.volumeType, tt.size), tt.want...)
		})
	}
}

func TestEbsVolumeIops(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		volumeType string
		size       int
		iops       model.Param[int]
		want       []expectation
	}{
		{"unset", "gp2", 20, model.Unset[int](), nil},
		{"gp3 default", "gp3", 35, model.Implied(3000), nil},
		{"io1 in range", "io1", 100, model.Given(5000), nil},
		{"io1 too high", "io1", 2000, model.Given(64001), []expectation{
			errorWith("IOPS rate must be between 100 and 64000 when provisioning io1 volumes."),
		}},
		{"gp3 too low", "gp3", 35, model.Given(2999), []expectation{errorWith("between 3000 and 16000")}},
		{"io1 ratio", "io1", 20, model.Given(1001), []expectation{
			errorWith("IOPS to volume size ratio of 50.05 is too high; maximum is 50."),
		}},
		{"io1 ratio at limit", "io1", 20, model.Given(1000), nil},
		{"gp2 iops", "gp2", 20, model.Given(100), []expectation{errorWith("IOPS can not be set when provisioning gp2 volumes.")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assertResults(t, TypeEbsVolumeIops, EbsVolumeIops(tt.volumeType, tt.size, tt.iops), tt.want...)
		})
	}
}

func TestEbsVolumeThroughput(t *testing.T) {
	t.Parallel()

	assertResults(t, TypeEbsVolumeThroughput, EbsVolumeThroughput("gp2", model.Unset[int]()))
	assertResults(t, TypeEbsVolumeThroughput, EbsVolumeThroughput("gp3", model.Implied(125)))
	assertResults(t, TypeEbsVolumeThroughput, EbsVolumeThroughput("gp3", model.Given(1001)),
		errorWith("Throughput must be between 125 MB/s and 1000 MB/s when provisioning gp3 volumes."))
	assertResults(t, TypeEbsVolumeThroughput, EbsVolumeThroughput("io1", model.Given(200)),
		errorWith("Throughput can only be set when provisioning gp3 volumes."))
}

func TestEbsVolumeThroughputIops(t *testing.T) {
	t.Parallel()

	assertResults(t, TypeEbsVolumeThroughputIops, EbsVolumeThroughputIops("gp3", 3000, 750))
	assertResults(t, TypeEbsVolumeThroughputIops, EbsVolumeThroughputIops("gp2", 100, 1000))
	assertResults(t, TypeEbsVolumeThroughputIops, EbsVolumeThroughputIops("gp3", 3000, 1000),
		errorWith("Throughput to IOPS ratio of 0.3333 is too high; maximum is 0.25."))
	assertResults(t, TypeEbsVolumeThroughputIops, EbsVolumeThroughputIops("gp3", 3000, 751),
		errorWith("ratio of 0.2503"))
}

func TestEbsKmsKey(t *testing.T) {
	t.Parallel()

	assertResults(t, TypeEbsKmsKey, EbsKmsKey(model.Unset[string](), false))
	assertResults(t, TypeEbsKmsKey, EbsKmsKey(model.Given("key"), true))
	assertResults(t, TypeEbsKmsKey, EbsKmsKey(model.Given("key"), false),
		errorWith("Kms Key Id key is specified, the encrypted state must be True."))
}
