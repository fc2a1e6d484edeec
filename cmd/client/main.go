package main

import "lemonpunch/cmd/client/cmd"

func main() {
	cmd.Execute()
}
