package main

import "github.com/hyperport/hyperport/cmd"

func main() {
	cmd.Execute()
}
