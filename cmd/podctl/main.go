package main

import "github.com/mcoot/podtracker/internal/cli"

func main() {
	cli.Execute()
}
