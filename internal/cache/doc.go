// SPDX-License-Identifier: MPL-2.0

// Package cache implements the download cache shared by all verb executions.
//
// Entries are plain files in the cache directory, named by the verb author.
// A present file is a hit when no digest is requested, or when its SHA-256
// matches the requested digest. Misses are downloaded with an external tool
// (curl, then wget) into a temporary name and moved into place only after
// verification, so a valid cached file is never replaced by a partial one.
package cache
