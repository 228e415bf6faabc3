package main

import (
	"github.com/dmota/tagbank/internal/cli"
)

func main() {
	cli.Execute()
}
