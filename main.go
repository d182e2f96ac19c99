package main

import "craft-catalog/cmd"

func main() {
	cmd.Execute()
}
