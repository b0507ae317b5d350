package main

import "github.com/ValentinKolb/ephemeral/cmd"

func main() {
	cmd.Execute()
}
