package validators

import (
	"fmt"
	"testing"

	"github.com/imamik/hpcgate/internal/metadata"
)

func TestTagKey(t *testing.T) {
	t.Parallel()

	assertResults(t, TypeTagKey, TagKey([]string{"team", "cost-center"}))
	assertResults(t, TypeTagKey, TagKey([]string{"parallelcluster:version", "aws:x"}),
		errorWith("'parallelcluster:version' uses the reserved prefix 'parallelcluster:'"),
		errorWith("'aws:x'"))

	many := make([]string, MaxTags+1)
	for i := range many {
		many[i] = fmt.Sprintf("k%d", i)
	}
	assertResults(t, TypeTagKey, TagKey(many), errorWith("The number of tags (51) has exceeded the limit of 50."))
}

func TestIamRoleComposition(t *testing.T) {
	t.Parallel()

	const (
		role    = "arn:aws:iam::123456789012:role/node"
		profile = "arn:aws:iam::123456789012:instance-profile/node"
		policy  = "arn:aws:iam::aws:policy/AmazonSSMManagedInstanceCore"
	)

	tests := []struct {
		name     string
		role     string
		profile  string
		s3       int
		policies []string
		want     []expectation
	}{
		{"nothing", "", "", 0, nil, nil},
		{"role", role, "", 0, nil, nil},
		{"profile", "", profile, 0, nil, nil},
		{"policies", "", "", 2, []string{policy}, nil},
		{"role and profile", role, profile, 0, nil, []expectation{errorWith("can not be configured together")}},
		{"role with s3", role, "", 1, nil, []expectation{errorWith("S3Access and AdditionalIamPolicies")}},
		{"bad role arn", "node-role", "", 0, nil, []expectation{errorWith("Invalid InstanceRole ARN 'node-role'")}},
		{"bad profile arn", "", role, 0, nil, []expectation{errorWith("Invalid InstanceProfile ARN")}},
		{"bad policy arn", "", "", 0, []string{"AdminAccess"}, []expectation{errorWith("Invalid policy ARN 'AdminAccess'")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assertResults(t, TypeIamRoleComposition, IamRoleComposition(tt.role, tt.profile, tt.s3, tt.policies), tt.want...)
		})
	}
}

func TestUrl(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"s3://bucket/key.sh", "https://example.com/post.sh"} {
		assertResults(t, TypeUrl, Url(ok))
	}
	for _, bad := range []string{"http://example.com/x.sh", "/local/script.sh", "s3:///key", "::"} {
		assertResults(t, TypeUrl, Url(bad), errorWith("is not a valid URL"))
	}
}

func TestDcv(t *testing.T) {
	t.Parallel()

	assertResults(t, TypeDcv, Dcv(false, 8443, "0.0.0.0/0", "centos8", metadata.ArchARM64))
	assertResults(t, TypeDcv, Dcv(true, 8443, "10.0.0.0/16", "alinux2", metadata.ArchX86_64))
	assertResults(t, TypeDcv, Dcv(true, 8443, "0.0.0.0/0", "alinux2", metadata.ArchX86_64),
		warningWith("opening DCV port 8443 to the world"))
	assertResults(t, TypeDcv, Dcv(true, 8443, "10.0.0.0/16", "rhel8", metadata.ArchARM64),
		errorWith("DCV is not supported on rhel8 for arm64 architecture"))
}

func TestLogRetention(t *testing.T) {
	t.Parallel()

	assertResults(t, TypeLogRetention, LogRetention(14))
	assertResults(t, TypeLogRetention, LogRetention(3653))
	assertResults(t, TypeLogRetention, LogRetention(15), errorWith("RetentionInDays 15 is not supported"))
}
