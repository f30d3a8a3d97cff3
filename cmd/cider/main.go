// Package main is the entry point for the cider CLI.
package main

import (
	"github.com/donaldgifford/cider/cmd/cider/cmd"
)

func main() {
	cmd.Execute()
}
