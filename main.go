package main

import "github.com/mabhi256/evinspect/cmd"

func main() {
	cmd.Execute()
}
