package main

import "github.com/kozaktomas/face-tagger/cmd"

func main() {
	cmd.Execute()
}
