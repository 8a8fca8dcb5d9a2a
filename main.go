package main

import "github.com/KaramelBytes/reportgen-cli/cmd"

func main() {
	cmd.Execute()
}
