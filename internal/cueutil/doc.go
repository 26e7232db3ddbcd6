// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema and
// decodes them into Go values, reporting errors with JSON-style paths
// (e.g. "config.cue: download.strict_verify: conflicting values").
package cueutil
