package main

import "github.com/aircycle/aircycle/cmd"

func main() {
	cmd.Execute()
}
