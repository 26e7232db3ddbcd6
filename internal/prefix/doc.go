// SPDX-License-Identifier: MPL-2.0

// Package prefix creates runtime prefixes and reads and writes the
// metadata file pfxkit keeps in each of them.
package prefix
