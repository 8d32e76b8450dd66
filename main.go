package main

import "tessdl/cmd"

func main() {
	cmd.Execute()
}
