package main

import (
	"os"

	"github.com/bianoble/confsync/cmd/confsync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
