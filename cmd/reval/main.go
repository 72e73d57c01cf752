package main

import (
	"github.com/mchmarny/reval/pkg/cli"
)

func main() {
	cli.Execute()
}
