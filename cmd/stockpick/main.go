package main

import (
	"fmt"
	"os"

	"github.com/jslee/stockpick/cmd/stockpick/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
