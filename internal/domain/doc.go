// Package domain defines lessons, lesson plans, shared excerpts and teacher
// profiles, together with the validation rules they carry. It has no
// knowledge of HTTP, storage or the model provider.
package domain
