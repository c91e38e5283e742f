package main

import "github.com/saturnino-fabrica-de-software/pontoface/cmd"

func main() {
	cmd.Execute()
}
