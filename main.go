package main

import "nathanbeddoewebdev/reseed/cmd"

func main() {
	cmd.Execute()
}
