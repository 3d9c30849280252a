package cmd

import (
	"fmt"
	"runtime"
)

// Version is the application version, overridable at build time via
// -ldflags "-X github.com/geoatlas/cmr-mcp/cmd.Version=v1.2.3".
var Version = "dev"

// runVersion prints version information.
func runVersion() {
	fmt.Printf("cmr-mcp %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
