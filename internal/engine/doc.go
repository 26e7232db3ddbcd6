// SPDX-License-Identifier: MPL-2.0

// Package engine installs verbs into a prefix.
//
// Execute resolves the requested verb and everything it calls into a plan,
// dependencies first with each verb at most once, and validates the plan
// before anything touches the prefix. Verbs then run in plan order, each in
// its own scratch directory, and the first failing action stops the whole
// execution.
//
// A single *runtime.Context is threaded through the execution: DLL overrides
// set by one action are seen by every later launch, including those of later
// verbs, and remain visible to the caller afterwards.
package engine
