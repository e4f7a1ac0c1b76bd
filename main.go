package main

import "github.com/example/drillbot/cmd"

func main() {
	cmd.Execute()
}
