package main

import "github.com/KaramelBytes/housewrangle/cmd"

func main() {
	cmd.Execute()
}
