package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// UserAgent is used when no user agent is configured.
var UserAgent = fmt.Sprintf("leitor/%s (%s %s)", Version, runtime.GOOS, runtime.GOARCH)
