package main

import "github.com/lexandro/kushn/cli"

func main() {
	cli.Execute()
}
