package validation

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/hpcgate/internal/metadata"
	"github.com/imamik/hpcgate/internal/model"
	"github.com/imamik/hpcgate/internal/validators"
)

// Env is what a rule may consult besides its node.
type Env struct {
	Ctx     context.Context
	Cluster *model.Cluster
	Cache   metadata.Getter
	Policy  ArchitecturePolicy
	Logger  logr.Logger
}

// NodeRule binds a validator to a node kind.
type NodeRule struct {
	Type  validators.Type
	Check func(env *Env, n model.Node) ([]validators.Result, error)
}

// ClusterRule is a cross-entity rule run once per tree after the walk.
// Path locates its findings.
type ClusterRule struct {
	Type  validators.Type
	Path  string
	Check func(env *Env) ([]validators.Result, error)
}

// Registry holds the rules run by the engine. It is built once and not
// modified while runs use it.
type Registry struct {
	nodes map[model.Kind][]NodeRule
	cross []ClusterRule
}

// NewEmptyRegistry returns a registry with no rules.
func NewEmptyRegistry() *Registry {
	return &Registry{nodes: make(map[model.Kind][]NodeRule)}
}

// NewRegistry returns a registry holding the full catalog.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	registerImage(r)
	registerHeadNode(r)
	registerNetworking(r)
	registerVolumes(r)
	registerNodeGroupSettings(r)
	registerScheduling(r)
	registerQueue(r)
	registerComputeResource(r)
	registerSharedStorage(r)
	registerClusterSettings(r)
	registerCross(r)
	return r
}

// Register appends a rule to the list of kind.
func (r *Registry) Register(kind model.Kind, rule NodeRule) {
	r.nodes[kind] = append(r.nodes[kind], rule)
}

// RegisterCross appends a cross-entity rule.
func (r *Registry) RegisterCross(rule ClusterRule) {
	r.cross = append(r.cross, rule)
}

// Rules returns the rules of kind in registration order.
func (r *Registry) Rules(kind model.Kind) []NodeRule {
	return r.nodes[kind]
}

// CrossRules returns the cross-entity rules in registration order.
func (r *Registry) CrossRules() []ClusterRule {
	return r.cross
}

// Types returns the validator types with at least one rule, in catalog order.
func (r *Registry) Types() []validators.Type {
	used := make(map[validators.Type]bool)
	for _, rules := range r.nodes {
		for _, rule := range rules {
			used[rule.Type] = true
		}
	}
	for _, rule := range r.cross {
		used[rule.Type] = true
	}
	var out []validators.Type
	for _, t := range validators.Types() {
		if used[t] {
			out = append(out, t)
		}
	}
	return out
}

// rule adapts a check on a concrete node type to a NodeRule.
func rule[N model.Node](t validators.Type, check func(env *Env, n N) ([]validators.Result, error)) NodeRule {
	return NodeRule{
		Type: t,
		Check: func(env *Env, n model.Node) ([]validators.Result, error) {
			typed, ok := n.(N)
			if !ok {
				return nil, fmt.Errorf("%s registered for %s got %T", t, n.Kind(), n)
			}
			return check(env, typed)
		},
	}
}

// absent reports whether a lookup failed with NotFound. Any other failure
// is returned for the engine to abort on.
func absent(err error) (bool, error) {
	switch {
	case err == nil:
		return false, nil
	case metadata.IsNotFound(err):
		return true, nil
	default:
		return false, err
	}
}

// headNodeArchitecture returns the head node architecture; ok is false when
// its instance type does not exist, which InstanceTypeValidator reports.
func headNodeArchitecture(env *Env) (arch string, ok bool, err error) {
	arch, err = env.Cluster.HeadNode.Architecture(env.Ctx, env.Cache)
	if missing, err := absent(err); missing || err != nil {
		return "", false, err
	}
	return arch, true, nil
}

// governingArchitecture applies the architecture policy to a compute resource.
func governingArchitecture(env *Env, cr *model.ComputeResource) (string, bool, error) {
	if env.Policy == ComputeResourceGoverns {
		arch, err := cr.Architecture(env.Ctx, env.Cache)
		if missing, err := absent(err); missing || err != nil {
			return "", false, err
		}
		return arch, true, nil
	}
	return headNodeArchitecture(env)
}

// instanceInfos looks up instance types, skipping those that do not exist.
func instanceInfos(env *Env, types []string) ([]metadata.InstanceTypeInfo, error) {
	infos := make([]metadata.InstanceTypeInfo, 0, len(types))
	for _, it := range types {
		info, err := env.Cache.InstanceType(env.Ctx, it)
		if missing, err := absent(err); err != nil {
			return nil, err
		} else if missing {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// subnetZones looks up availability zones, leaving out subnets that do not exist.
func subnetZones(env *Env, subnets []string) (map[string]string, error) {
	zones := make(map[string]string, len(subnets))
	for _, id := range subnets {
		if _, done := zones[id]; done {
			continue
		}
		az, err := env.Cache.SubnetAvailabilityZone(env.Ctx, id)
		if missing, err := absent(err); err != nil {
			return nil, err
		} else if missing {
			continue
		}
		zones[id] = az
	}
	return zones, nil
}

// securityGroups looks up security group rules and the ids that do not exist.
func securityGroups(env *Env, ids []string) ([]metadata.SecurityGroupRules, []string, error) {
	var groups []metadata.SecurityGroupRules
	var missing []string
	for _, id := range ids {
		rules, err := env.Cache.SecurityGroupRules(env.Ctx, id)
		if notFound, err := absent(err); err != nil {
			return nil, nil, err
		} else if notFound {
			missing = append(missing, id)
			continue
		}
		groups = append(groups, rules)
	}
	return groups, missing, nil
}
