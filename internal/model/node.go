package model

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Kind is the type tag of a resource node. The validation registry maps
// kinds to their rules.
type Kind int

const (
	KindCluster Kind = iota
	KindImage
	KindHeadNode
	KindHeadNodeNetworking
	KindQueueNetworking
	KindLocalStorage
	KindRootVolume
	KindDcv
	KindIam
	KindCustomActions
	KindScheduling
	KindQueue
	KindComputeResource
	KindSharedStorage
	KindMonitoring
	KindClusterIam
	KindTags
	KindDevSettings
)

var kindNames = map[Kind]string{
	KindCluster:            "Cluster",
	KindImage:              "Image",
	KindHeadNode:           "HeadNode",
	KindHeadNodeNetworking: "HeadNodeNetworking",
	KindQueueNetworking:    "QueueNetworking",
	KindLocalStorage:       "LocalStorage",
	KindRootVolume:         "RootVolume",
	KindDcv:                "Dcv",
	KindIam:                "Iam",
	KindCustomActions:      "CustomActions",
	KindScheduling:         "Scheduling",
	KindQueue:              "Queue",
	KindComputeResource:    "ComputeResource",
	KindSharedStorage:      "SharedStorage",
	KindMonitoring:         "Monitoring",
	KindClusterIam:         "ClusterIam",
	KindTags:               "Tags",
	KindDevSettings:        "DevSettings",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// State is the validation state of a node.
type State int32

const (
	Unvalidated State = iota
	Validating
	Validated
)

func (s State) String() string {
	switch s {
	case Unvalidated:
		return "Unvalidated"
	case Validating:
		return "Validating"
	case Validated:
		return "Validated"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// ErrAlreadyValidated is returned when validation of a node is started twice.
// A tree is validated once; rebuild it to validate again.
var ErrAlreadyValidated = errors.New("node already validated")

// Node is a resource tree node.
type Node interface {
	Kind() Kind
	Name() string
	Path() string
	Children() []Node

	State() State
	BeginValidation() error
	FinishValidation()
}

// base carries the identity and validation state shared by every node.
type base struct {
	kind     Kind
	name     string
	path     string
	children []Node
	state    atomic.Int32
}

func (b *base) init(kind Kind, name, path string) {
	b.kind, b.name, b.path = kind, name, path
}

func (b *base) Kind() Kind       { return b.kind }
func (b *base) Name() string     { return b.name }
func (b *base) Path() string     { return b.path }
func (b *base) Children() []Node { return b.children }
func (b *base) State() State     { return State(b.state.Load()) }

// BeginValidation moves the node from Unvalidated to Validating.
func (b *base) BeginValidation() error {
	if !b.state.CompareAndSwap(int32(Unvalidated), int32(Validating)) {
		return fmt.Errorf("%s (%s): %w", b.path, State(b.state.Load()), ErrAlreadyValidated)
	}
	return nil
}

// FinishValidation moves the node from Validating to Validated.
func (b *base) FinishValidation() {
	b.state.CompareAndSwap(int32(Validating), int32(Validated))
}

func (b *base) addChild(n Node) {
	b.children = append(b.children, n)
}

// Walk visits the tree pre-order: a node before its children, children in
// declaration order. Returning an error from fn stops the walk.
func Walk(n Node, fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.Children() {
		if err := Walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}

// Nodes returns every node in pre-order.
func Nodes(root Node) []Node {
	var out []Node
	_ = Walk(root, func(n Node) error {
		out = append(out, n)
		return nil
	})
	return out
}
