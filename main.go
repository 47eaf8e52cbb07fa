package main

import "coderefine/cmd"

func main() {
	cmd.Execute()
}
