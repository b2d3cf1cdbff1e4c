package validators

import "regexp"

const (
	maxQueueNameLength           = 25
	maxComputeResourceNameLength = 25
	maxSharedStorageNameLength   = 30
)

var (
	queueNamePattern           = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	computeResourceNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)
	sharedStorageNamePattern   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
)

// QueueName checks the naming rules of a scheduler queue.
func QueueName(name string) []Result {
	c := newCollector(TypeQueueName)
	switch {
	case name == "default":
		c.errorf("It is forbidden to use 'default' as a queue name.")
	case !queueNamePattern.MatchString(name) || len(name) > maxQueueNameLength:
		c.errorf("Invalid name '%s'. Name must begin with a lowercase letter, contain only lowercase letters, "+
			"digits and hyphens, and be at most %d characters long.", name, maxQueueNameLength)
	}
	return c.results
}

// ComputeResourceName checks the naming rules of a compute resource.
func ComputeResourceName(name string) []Result {
	c := newCollector(TypeComputeResourceName)
	if !computeResourceNamePattern.MatchString(name) || len(name) > maxComputeResourceNameLength {
		c.errorf("Invalid name '%s'. Name must begin with a letter, contain only letters, digits and hyphens, "+
			"and be at most %d characters long.", name, maxComputeResourceNameLength)
	}
	return c.results
}

// SharedStorageName checks the naming rules of a shared storage entry.
func SharedStorageName(name string) []Result {
	c := newCollector(TypeSharedStorageName)
	switch {
	case name == "default":
		c.errorf("It is forbidden to use 'default' as a name.")
	case !sharedStorageNamePattern.MatchString(name):
		c.errorf("Invalid name '%s'. Name must begin with a letter or digit and contain only letters, digits, "+
			"hyphens and underscores.", name)
	case len(name) > maxSharedStorageNameLength:
		c.errorf("Invalid name '%s'. Name can be at most %d characters long.", name, maxSharedStorageNameLength)
	}
	return c.results
}
