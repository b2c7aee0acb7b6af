package main

import "github.com/asachs01/claudeDocugen/cmd"

func main() {
	cmd.Execute()
}
