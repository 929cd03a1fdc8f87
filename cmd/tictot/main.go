package main

import (
	"context"
	"fmt"
	"os"

	"tictot/internal/cli"
)

func main() {
	root := cli.NewRootCommand(os.Stdout)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
