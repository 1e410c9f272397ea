package main

import "github.com/imcbsglobal/rrc-sync/cmd"

func main() {
	cmd.Execute()
}
