package main

import "github.com/breverdbidder/claude-ai-deployer/cmd"

func main() {
	cmd.Execute()
}
