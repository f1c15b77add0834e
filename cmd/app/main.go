package main

import (
	"os"

	"rescueRoute/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
