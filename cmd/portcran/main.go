package main

import "github.com/yzgyyang/portcran/internal/cli"

func main() {
	cli.Execute()
}
