package main

import "github.com/zero-day-ai/protomap/cmd"

func main() {
	cmd.Execute()
}
