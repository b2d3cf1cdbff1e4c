package validators

import (
	"path"
	"slices"
	"strings"

	"github.com/imamik/hpcgate/internal/model"
	"github.com/imamik/hpcgate/internal/util/naming"
)

// StorageLimits is the maximum number of shared storage entries per kind.
var StorageLimits = map[model.StorageKind]int{
	model.BlockVolume:        5,
	model.NetworkFileSystem:  1,
	model.ParallelFileSystem: 1,
}

// reservedMountDirs cannot be used as shared storage mount points.
var reservedMountDirs = []string{
	"/", "/bin", "/boot", "/dev", "/etc", "/lib", "/lib64", "/opt/intel", "/opt/slurm",
	"/proc", "/root", "/sbin", "/sys", "/tmp", "/usr", "/var",
}

// MountEntry is a shared storage entry and its mount directory.
type MountEntry struct {
	Name     string
	MountDir string
}

// NumberOfStorage checks the number of shared storage entries per kind.
func NumberOfStorage(counts map[model.StorageKind]int) []Result {
	c := newCollector(TypeNumberOfStorage)
	for _, kind := range model.StorageKinds() {
		limit := StorageLimits[kind]
		if n := counts[kind]; n > limit {
			c.errorf("Too many %s shared storage specified in the configuration: %d found, the limit is %d.", kind, n, limit)
		}
	}
	return c.results
}

// DuplicateMountDir reports mount directories used by more than one shared
// storage entry, once per directory.
func DuplicateMountDir(entries []MountEntry) []Result {
	c := newCollector(TypeDuplicateMountDir)
	users := make(map[string][]string)
	var order []string
	for _, e := range entries {
		dir := normalizeMountDir(e.MountDir)
		if _, seen := users[dir]; !seen {
			order = append(order, dir)
		}
		users[dir] = append(users[dir], e.Name)
	}
	for _, dir := range order {
		if names := users[dir]; len(names) > 1 {
			c.errorf("The mount directory `%s` is used for multiple shared storage: %s",
				strings.TrimPrefix(dir, "/"), naming.QuoteList(names))
		}
	}
	return c.results
}

// OverlappingMountDir reports pairs of mount directories where one is a
// sub-path of the other.
func OverlappingMountDir(entries []MountEntry) []Result {
	c := newCollector(TypeOverlappingMountDir)
	var dirs []string
	for _, e := range entries {
		if dir := normalizeMountDir(e.MountDir); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	for i, a := range dirs {
		for _, b := range dirs[i+1:] {
			outer, inner := a, b
			if len(inner) < len(outer) {
				outer, inner = inner, outer
			}
			if isSubPath(outer, inner) {
				c.errorf("Mount directories %s, %s cannot overlap", strings.TrimPrefix(outer, "/"), strings.TrimPrefix(inner, "/"))
			}
		}
	}
	return c.results
}

// SharedStorageMountDir rejects system directories as mount points.
func SharedStorageMountDir(name, mountDir string) []Result {
	c := newCollector(TypeSharedStorageMountDir)
	if dir := normalizeMountDir(mountDir); slices.Contains(reservedMountDirs, dir) {
		c.errorf("The mount directory %s of shared storage '%s' is reserved and cannot be used.", dir, name)
	}
	return c.results
}

// normalizeMountDir makes a mount directory absolute and clean, so "dir/"
// and "/dir" compare equal.
func normalizeMountDir(dir string) string {
	return path.Clean("/" + strings.TrimSpace(dir))
}

func isSubPath(outer, inner string) bool {
	if outer == "/" {
		return inner != "/"
	}
	return strings.HasPrefix(inner, outer+"/")
}

// FsxCapacity holds the FSx for Lustre settings that bound its storage capacity.
type FsxCapacity struct {
	StorageCapacity          int
	DeploymentType           string
	StorageType              string
	PerUnitStorageThroughput int
	// Existing is set when the entry mounts an existing file system.
	Existing bool
}

// FsxStorageCapacity checks the capacity increments allowed for the
// deployment and storage type of a new FSx for Lustre file system.
func FsxStorageCapacity(fsx FsxCapacity) []Result {
	c := newCollector(TypeFsxStorageCapacity)
	capacity := fsx.StorageCapacity
	switch {
	case fsx.Existing:
	case capacity <= 0:
		c.errorf("When specifying 'fsx' section, the 'StorageCapacity' option must be specified")
	case fsx.DeploymentType == "SCRATCH_1":
		if capacity != 1200 && capacity != 2400 && capacity%3600 != 0 {
			c.errorf("Capacity for FSx SCRATCH_1 filesystem is 1,200 GB, 2,400 GB or increments of 3,600 GB")
		}
	case fsx.DeploymentType == "PERSISTENT_1" && fsx.StorageType == "HDD":
		switch {
		case fsx.PerUnitStorageThroughput == 12 && capacity%6000 != 0:
			c.errorf("Capacity for FSx PERSISTENT HDD 12 MB/s/TiB file systems is increments of 6,000 GiB")
		case fsx.PerUnitStorageThroughput == 40 && capacity%1800 != 0:
			c.errorf("Capacity for FSx PERSISTENT HDD 40 MB/s/TiB file systems is increments of 1,800 GiB")
		}
	case fsx.DeploymentType == "SCRATCH_2" || fsx.DeploymentType == "PERSISTENT_1":
		if capacity != 1200 && capacity%2400 != 0 {
			c.errorf("Capacity for FSx SCRATCH_2 and PERSISTENT_1 filesystems is 1,200 GB or increments of 2,400 GB")
		}
	}
	return c.results
}
