package main

import "polyglot/cmd"

func main() {
	cmd.Execute()
}
