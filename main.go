package main

import "patchrun/internal/cli"

func main() {
	cli.Execute()
}
