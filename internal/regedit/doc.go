// SPDX-License-Identifier: MPL-2.0

// Package regedit builds and imports registry patch documents
// ("Windows Registry Editor Version 5.00" files) and sanitizes the
// registry exports a runtime writes into a prefix.
package regedit
