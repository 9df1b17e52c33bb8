package main

import "github.com/notargets/viscousflow/cmd"

func main() {
	cmd.Execute()
}
