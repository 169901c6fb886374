package main

import (
	"context"
	"log"

	"github.com/agentbuilder-dev/agentbuilder/internal/registry"
)

func main() {
	if err := registry.App(context.Background()); err != nil {
		log.Fatal(err)
	}
}
