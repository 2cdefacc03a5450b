package main

import "github.com/bytesize-app/bytesize/internal/cli"

func main() {
	cli.Main()
}
