package main

import (
	"time"

	"github.com/flowshim/procrun/cmd"
)

var Version string
var Buildtime string
var Commit string

func main() {
	appVersion := "local"
	if Version != "" {
		appVersion = Version
	}

	appBuildtime, _ := time.Parse(time.RFC3339, Buildtime)

	cmd.Execute(cmd.ExecuteParams{
		Version:  appVersion,
		Compiled: appBuildtime,
	})
}
