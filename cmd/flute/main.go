package main

import "github.com/vitalvas/flute/cmd/flute/commands"

func main() {
	commands.Execute()
}
