package main

import "github.com/waferlab/cpqa-cli/cmd"

func main() {
	cmd.Execute()
}
