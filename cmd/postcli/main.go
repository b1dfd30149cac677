package main

import (
	"github.com/pixelvide/postcli/pkg/root"

	_ "github.com/pixelvide/postcli/pkg/console" // Register commands
)

func main() {
	root.Execute()
}
