// Package main is the harris command itself.
package main

import (
	"log"
	"os"

	harriscli "go.viam.com/stitching/cli"
)

func main() {
	app := harriscli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
