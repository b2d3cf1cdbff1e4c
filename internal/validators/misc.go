package validators

import (
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/imamik/hpcgate/internal/metadata"
	"github.com/imamik/hpcgate/internal/util/naming"
)

// MaxTags is the maximum number of cluster tags.
const MaxTags = 50

// ReservedTagPrefixes cannot start a user tag key.
var ReservedTagPrefixes = []string{"aws:", "parallelcluster:"}

// RetentionDays are the CloudWatch log retention periods accepted.
var RetentionDays = []int{1, 3, 5, 7, 14, 30, 60, 90, 120, 150, 180, 365, 400, 545, 731, 1096, 1827, 2192, 2557, 2922, 3288, 3653}

var (
	policyArnPattern          = regexp.MustCompile(`^arn:aws[a-z-]*:iam::(aws|\d{12}):policy/.+$`)
	roleArnPattern            = regexp.MustCompile(`^arn:aws[a-z-]*:iam::\d{12}:role/.+$`)
	instanceProfileArnPattern = regexp.MustCompile(`^arn:aws[a-z-]*:iam::\d{12}:instance-profile/.+$`)
)

// dcvOsByArchitecture lists the operating systems DCV runs on.
var dcvOsByArchitecture = map[string][]string{
	metadata.ArchX86_64: {"alinux2", "alinux2023", "centos7", "rhel8", "ubuntu1804", "ubuntu2004", "ubuntu2204"},
	metadata.ArchARM64:  {"alinux2", "ubuntu2004", "ubuntu2204"},
}

// TagKey checks user tag keys.
func TagKey(keys []string) []Result {
	c := newCollector(TypeTagKey)
	for _, key := range keys {
		for _, prefix := range ReservedTagPrefixes {
			if strings.HasPrefix(key, prefix) {
				c.errorf("The tag key '%s' uses the reserved prefix '%s'.", key, prefix)
			}
		}
	}
	if len(keys) > MaxTags {
		c.errorf("The number of tags (%d) has exceeded the limit of %d.", len(keys), MaxTags)
	}
	return c.results
}

// IamRoleComposition checks the identity settings of a node group. Empty
// strings mean unset.
func IamRoleComposition(instanceRole, instanceProfile string, s3Access int, policies []string) []Result {
	c := newCollector(TypeIamRoleComposition)
	if instanceRole != "" && instanceProfile != "" {
		c.errorf("InstanceProfile and InstanceRole can not be configured together.")
	}
	if (instanceRole != "" || instanceProfile != "") && (s3Access > 0 || len(policies) > 0) {
		c.errorf("S3Access and AdditionalIamPolicies can not be configured together with InstanceRole or InstanceProfile.")
	}
	if instanceRole != "" && !roleArnPattern.MatchString(instanceRole) {
		c.errorf("Invalid InstanceRole ARN '%s'.", instanceRole)
	}
	if instanceProfile != "" && !instanceProfileArnPattern.MatchString(instanceProfile) {
		c.errorf("Invalid InstanceProfile ARN '%s'.", instanceProfile)
	}
	for _, p := range policies {
		if !policyArnPattern.MatchString(p) {
			c.errorf("Invalid policy ARN '%s'.", p)
		}
	}
	return c.results
}

// Url checks that a script or package location uses a supported scheme.
func Url(value string) []Result {
	c := newCollector(TypeUrl)
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "s3" && u.Scheme != "https") || u.Host == "" {
		c.errorf("The value '%s' is not a valid URL, choose a URL with a supported scheme: s3, https.", value)
	}
	return c.results
}

// Dcv checks the remote desktop settings of the head node.
func Dcv(enabled bool, port int, allowedIps, os, arch string) []Result {
	c := newCollector(TypeDcv)
	if !enabled {
		return nil
	}
	if supported := dcvOsByArchitecture[arch]; !slices.Contains(supported, os) {
		c.errorf("DCV is not supported on %s for %s architecture. Supported operating systems: %s",
			os, arch, naming.QuoteList(supported))
	}
	if allowedIps == "0.0.0.0/0" {
		c.warningf("With this configuration you are opening DCV port %d to the world (0.0.0.0/0). "+
			"It is recommended to restrict access.", port)
	}
	return c.results
}

// LogRetention checks the CloudWatch log retention period.
func LogRetention(days int) []Result {
	c := newCollector(TypeLogRetention)
	if !slices.Contains(RetentionDays, days) {
		allowed := make([]string, len(RetentionDays))
		for i, d := range RetentionDays {
			allowed[i] = strconv.Itoa(d)
		}
		c.errorf("RetentionInDays %d is not supported. Supported values: %s.", days, strings.Join(allowed, ", "))
	}
	return c.results
}
