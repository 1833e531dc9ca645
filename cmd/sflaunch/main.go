package main

import (
	"fmt"
	"os"

	"github.com/sflaunch/sflaunch/cmd"
)

// Populated at build time via -ldflags.
var (
	version   = "dev"
	buildType = "local"
	date      = ""
	commit    = ""
)

func main() {
	err := cmd.Execute(os.Args, cmd.BuildArgs{
		Version:   version,
		BuildType: buildType,
		Date:      date,
		Commit:    commit,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
