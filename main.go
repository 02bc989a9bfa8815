package main

import "github.com/cmmoran/komodelgen/cmd"

func main() {
	cmd.Execute()
}
