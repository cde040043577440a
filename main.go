package main

import "github.com/kozaktomas/gridsheet/cmd"

func main() {
	cmd.Execute()
}
