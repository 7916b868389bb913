package main

import (
	"os"

	"github.com/abhisek/englishbuddy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
