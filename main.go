package main

import "github.com/mj1618/cslogin/cmd"

func main() {
	cmd.Execute()
}
