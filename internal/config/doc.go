// SPDX-License-Identifier: MPL-2.0

// Package config loads pfxkit settings with Viper, using CUE as the file
// format.
//
// The file is <config dir>/config.cue, where the config directory follows
// platform conventions ($XDG_CONFIG_HOME/pfxkit on Linux). It is validated
// against the embedded config_schema.cue before it is merged over the
// defaults. Every key can also be set through a PFXKIT_ environment
// variable, with dots replaced by underscores (PFXKIT_DOWNLOAD_STRICT_VERIFY).
package config
