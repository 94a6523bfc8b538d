package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jayanthkoushik/shiny-pyseed/internal/cli"
)

func main() {
	app := cli.NewApp()
	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
