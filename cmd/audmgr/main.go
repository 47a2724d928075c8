// SPDX-License-Identifier: EPL-2.0

// Command audmgr plays clips through the pooled audio manager and renders
// them offline.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
