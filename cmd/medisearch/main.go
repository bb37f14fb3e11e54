// Package main is the entry point for the MediSearch service.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/medisearch/cmd/medisearch/app"
)

func main() {
	app.NewApp().Run()
}
