package main

import "github.com/0glabs/0g-snapshot/cmd"

func main() {
	cmd.Execute()
}
