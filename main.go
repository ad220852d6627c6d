package main

import "github.com/raseelhq/reporting-apis/cmd"

func main() {
	cmd.Execute()
}
