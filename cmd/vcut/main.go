package main

import "github.com/vcutpro/vcut/internal/cli"

func main() {
	cli.Main()
}
