// SPDX-License-Identifier: MPL-2.0

// Berry packs package.json workspaces into publishable archives.
package main

import "github.com/CodeLenny/berry/cmd/berry"

func main() {
	cmd.Execute()
}
