package main

import "github.com/dgview/dgview/cmd"

func main() {
	cmd.Execute()
}
