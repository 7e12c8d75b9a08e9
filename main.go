package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ghaniswara/algolove/internal/cli"
)

func main() {
	ctx := context.Background()
	if err := cli.NewRootCommand(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
