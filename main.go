package main

import "github.com/grabarr/grabarr/cmd"

func main() {
	cmd.Execute()
}
