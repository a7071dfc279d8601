package main

import "github.com/nextlevelbuilder/posterbot/cmd"

func main() {
	cmd.Execute()
}
