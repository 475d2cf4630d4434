package main

import "github.com/lepinkainen/furnish/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
