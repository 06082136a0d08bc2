// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Every lesson operation is scoped by owner: implementations must include
// an owner-equality predicate in each statement, so a lesson belonging to
// another user is reported as not found.
package store
