package main

import "github.com/saeidalz13/ocean-storm/cmd/cli"

func main() {
	cli.Execute()
}
