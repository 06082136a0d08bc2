// Package gcs stores generated lesson illustrations in a Google Cloud Storage
// bucket and hands back the public URL that is persisted on the lesson.
//
// The store is optional. When no bucket is configured the application never
// constructs an ImageStore and illustrations are only returned inline as data
// URIs.
package gcs
