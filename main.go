package main

import "github.com/scenesmith/scenesmith/internal/cmd"

func main() {
	cmd.Execute()
}
