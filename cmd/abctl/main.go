package main

import "github.com/agentbuilder-dev/agentbuilder/pkg/cli"

func main() {
	cli.Execute()
}
