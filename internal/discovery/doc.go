// SPDX-License-Identifier: MPL-2.0

// Package discovery loads user-authored verbs from a directory.
//
// Two formats are recognized:
//   - <name>.sh: a host shell script run with the verb environment. Title,
//     publisher and year are read from "# Title:" style comments near the top.
//   - <name>.toml: a declarative definition with a [verb] table and an
//     [[actions]] array.
//
// Loading never executes anything. Files that cannot be used are reported as
// diagnostics and skipped so one broken definition does not hide the rest.
package discovery
