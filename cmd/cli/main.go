package main

import "github.com/mcoot/gamenight-go/internal/cli"

func main() {
	cli.Execute()
}
