package main

import "github.com/janhicken/cloud-bigtable-client/internal/cli"

func main() {
	cli.Execute()
}
