package main

import "github.com/tonkla/autoladder/cmd"

func main() {
	cmd.Execute()
}
