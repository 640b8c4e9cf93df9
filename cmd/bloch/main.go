package main

import "github.com/bloch-lang/bloch/pkg/cli"

func main() {
	cli.Run()
}
