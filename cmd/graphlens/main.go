package main

import (
	"os"

	"github.com/graphlens/graphlens/internal/cli"
	"github.com/graphlens/graphlens/pkg/buildinfo"
)

func main() {
	cli.SetVersion(buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
