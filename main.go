package main

import "pkgstats/cmd"

func main() {
	cmd.Execute()
}
