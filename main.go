package main

import (
	"os"

	"github.com/spigell/cv-sorter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
