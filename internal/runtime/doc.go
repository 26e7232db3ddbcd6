// SPDX-License-Identifier: MPL-2.0

// Package runtime derives the launch environment for a compatibility runtime
// (Wine or Proton) and a target prefix, and launches the runtime's binaries
// with that environment.
//
// A Context is pure path and variable derivation: constructing one never
// fails and never touches the prefix. Launch operations (Run and its thin
// wrappers) spawn the runtime loader synchronously and report every launch
// to an Observer. The background server is modeled as an explicit Server
// handle with Start, Wait and Kill.
package runtime
