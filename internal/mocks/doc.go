// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout the application,
// facilitating consistent and DRY testing across the codebase. Instead of defining
// inline mocks in individual test files, these standardized mock implementations
// can be reused.
//
// Key Features:
//
//   - In-memory stores that honour owner scoping like the Postgres stores
//   - Generators that record every prompt they receive
//   - Function fields to override any single method
//
// Usage:
//
// Import the mocks package in your test file and create the required mock:
//
//	import "github.com/kathalab/lesson-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    gen := &mocks.MockGenerator{Response: `{"storyHook": ...}`}
//	    lessons := mocks.NewMockLessonStore()
//
//	    // Wire them into the service under test, then inspect
//	    // gen.CallCount() and lessons.Count().
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
//  4. Update existing tests to use the centralized mock implementation
package mocks
