package main

import "did/cmd"

func main() {
	cmd.Execute()
}
