package main

import "stiventours.com/pasadias/cmd/web/cmd"

func main() {
	cmd.Execute()
}
