package validation

import "fmt"

// ArchitecturePolicy selects whose architecture governs the per compute
// resource OS checks.
type ArchitecturePolicy int

const (
	// HeadNodeGoverns checks compute resources against the head node
	// architecture.
	HeadNodeGoverns ArchitecturePolicy = iota
	// ComputeResourceGoverns checks every compute resource against its own
	// architecture and additionally checks its OS support.
	ComputeResourceGoverns
)

func (p ArchitecturePolicy) String() string {
	switch p {
	case HeadNodeGoverns:
		return "head-node"
	case ComputeResourceGoverns:
		return "compute-resource"
	default:
		return fmt.Sprintf("ArchitecturePolicy(%d)", int(p))
	}
}

// ParseArchitecturePolicy parses "head-node" or "compute-resource".
func ParseArchitecturePolicy(s string) (ArchitecturePolicy, error) {
	switch s {
	case "head-node", "":
		return HeadNodeGoverns, nil
	case "compute-resource":
		return ComputeResourceGoverns, nil
	default:
		return 0, fmt.Errorf("unknown architecture policy %q (valid: head-node, compute-resource)", s)
	}
}
