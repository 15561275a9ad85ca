// vcutd runs the clipping service daemon without the CLI front end. It is
// equivalent to "vcut serve" and exists for container entrypoints.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vcutpro/vcut/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.Serve(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
