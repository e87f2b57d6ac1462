package main

import "novelhub/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
