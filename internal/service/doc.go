// Package service contains the lesson generation pipeline and the community
// feed use cases. It orchestrates domain objects, the stores defined in
// internal/store and the generation collaborators.
//
// Key components:
//
//  1. LessonService: prompt, model call, parsing, optional illustration and
//     persistence for a single generation request, plus the owner-scoped
//     history and export operations.
//  2. ExcerptService: share policy enforcement and the public feed.
//
// Services receive their collaborators through constructor injection.
// Image generation and object storage are optional and may be nil.
//
// Expected failures are returned as sentinel errors (see errors.go); anything
// else is wrapped in a ServiceError naming the failed operation.
package service
