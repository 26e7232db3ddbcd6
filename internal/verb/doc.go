// SPDX-License-Identifier: MPL-2.0

// Package verb defines installable units ("verbs") and the registry that
// holds them.
//
// A verb is a named, categorized, ordered list of actions. Actions form a
// closed set of variants: the execution engine switches over them, and no
// type outside this package can add a new one.
package verb
