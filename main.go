package main

import "github.com/chukul/sagectl/cmd"

func main() {
	cmd.Execute()
}
