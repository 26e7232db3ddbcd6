// SPDX-License-Identifier: MPL-2.0

// Package issue holds pfxkit's user-facing error guidance: errors that say
// what was being done and how to fix it, and a catalog of Markdown
// explanations for the failures users hit most.
package issue
