package main

import "kielo/cmd"

func main() {
	cmd.Execute()
}
