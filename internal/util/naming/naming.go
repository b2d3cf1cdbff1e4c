package naming

import (
	"fmt"
	"strings"
)

// Root is the path of the cluster node.
const Root = "Cluster"

// Join appends a section to a parent path.
func Join(parent, section string) string {
	if parent == "" || parent == Root {
		return section
	}
	return parent + "/" + section
}

// Entry appends a named list entry to a parent path.
func Entry(parent, list, name string) string {
	return Join(parent, fmt.Sprintf("%s[%s]", list, name))
}

// Index appends an unnamed list entry to a parent path.
func Index(parent, list string, i int) string {
	return Join(parent, fmt.Sprintf("%s[%d]", list, i))
}

// Queue returns the path of a scheduler queue.
func Queue(name string) string {
	return Entry("Scheduling", "Queues", name)
}

// ComputeResource returns the path of a compute resource within a queue.
func ComputeResource(queue, name string) string {
	return Entry(Queue(queue), "ComputeResources", name)
}

// SharedStorage returns the path of a shared storage entry.
func SharedStorage(name string) string {
	return Entry("", "SharedStorage", name)
}

// Field appends a field name to a node path.
func Field(path, field string) string {
	return Join(path, field)
}

// QuoteList formats names the way finding messages list them: ['a', 'b'].
func QuoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
