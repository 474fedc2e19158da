package main

import "github.com/mj1618/slidescene/cmd"

func main() {
	cmd.Execute()
}
