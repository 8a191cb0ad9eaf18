package main

import "github.com/gaurav-prasanna/paperback/cmd"

func main() {
	cmd.Execute()
}
