package main

import (
	"context"
	"os"

	"github.com/njchilds90/penalty/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
