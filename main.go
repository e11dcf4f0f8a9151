package main

import "github.com/hlmerscher/hack-toolchain-go/cmd"

func main() {
	cmd.Execute()
}
