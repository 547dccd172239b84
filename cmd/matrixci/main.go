package main

import "matrixci/internal/cmd"

func main() {
	cmd.Execute()
}
