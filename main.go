package main

import "github.com/kozaktomas/pose-detector/cmd"

func main() {
	cmd.Execute()
}
