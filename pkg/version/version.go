package version

import "fmt"

// Set at build time with -ldflags "-X github.com/Azure/logfill/pkg/version.Version=...".
var (
	GitCommit string
	BuildTime string
	Version   string
)

func String() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	return fmt.Sprintf("%s, Commit:%s, Build-time:%s", v, GitCommit, BuildTime)
}
