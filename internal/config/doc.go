// Package config defines the cluster document schema and the run settings.
//
// A [Document] is the user-authored cluster specification decoded strictly
// from YAML or JSON: unknown keys and type mismatches produce a
// [SchemaError] carrying a path, line and, where possible, a suggestion for
// the intended key. [Settings] hold run-level knobs read from the
// environment. Defaults are not applied here; the resource model resolves
// them so it can record which values were implied.
package config
