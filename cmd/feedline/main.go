package main

import "feedline/internal/cmd"

func main() {
	cmd.Run()
}
