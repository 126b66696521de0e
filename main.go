package main

import "github.com/KaramelBytes/cord19/cmd"

func main() {
	cmd.Execute()
}
