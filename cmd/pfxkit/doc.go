// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the pfxkit command line: prefix management, verb
// installation, and the download cache and configuration commands.
package cmd
