package main

import "github.com/KaramelBytes/cropinsights/cmd"

func main() {
	cmd.Execute()
}
