package main

import "github.com/notargets/fieldview/cmd"

func main() {
	cmd.Execute()
}
