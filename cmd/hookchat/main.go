package main

import "github.com/hookchat/hookchat/internal/commands"

func main() {
	commands.Execute()
}
