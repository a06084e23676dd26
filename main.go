package main

import "github.com/frahmantamala/interview-console/cmd"

func main() {
	cmd.Execute()
}
