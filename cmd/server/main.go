package main

import "github.com/eventdeck/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
