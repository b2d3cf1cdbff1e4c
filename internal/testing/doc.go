// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - DocumentBuilder: Fluent builder for creating cluster documents
//   - FakeCollaborator: In-memory metadata collaborator with call counters
//   - MockCollaborator: testify mock for scripting error sequences
//
// Usage:
//
//	doc := testing.NewDocumentBuilder().
//	    WithOs("ubuntu2004").
//	    WithEbs("data", "/data").
//	    Build()
//
//	fake := testing.NewStandardFake()
//	cache := metadata.NewCache(fake)
package testing
