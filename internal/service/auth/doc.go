// Package auth verifies the bearer tokens issued by the hosted identity
// provider and resolves them to a local profile.
//
// Tokens are HS256 JWTs signed with the provider's shared secret. The subject
// claim carries the user's UUID. A token is only accepted when that user also
// has a row in the profiles table.
package auth
