package main

import "github.com/tessro/tuneboard/internal/cli"

func main() {
	cli.Execute()
}
