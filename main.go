package main

import "wonderland.org/cmroll/cmd"

func main() {
	cmd.Execute()
}
