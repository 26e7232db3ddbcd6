// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/pfxkit/pfxkit/cmd/pfxkit"

func main() {
	cmd.Execute()
}
