package main

import "github.com/ethanolivertroy/validpack/cmd"

func main() {
	cmd.Execute()
}
