package main

import (
	"fmt"
	"os"

	"github.com/dileroc6/bigotesfelinos/cmd/bigotes/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
