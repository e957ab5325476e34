package main

import "github.com/tessro/tapedeck/internal/cli"

func main() {
	cli.Execute()
}
