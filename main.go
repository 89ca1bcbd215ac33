package main

import "github.com/andrewmarklloyd/tandem-bridge/cmd"

func main() {
	cmd.Execute()
}
