// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test doubles and fixtures: a fake process runner
// that records invocations instead of spawning them, and helpers that build
// runtime trees on disk.
package testutil
