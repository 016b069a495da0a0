package main

import (
	"os"

	"github.com/abhisek/studyzone/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
