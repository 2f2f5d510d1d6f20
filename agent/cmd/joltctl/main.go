package main

import "github.com/Ckuran148/Jolt/agent/internal/cli"

func main() {
	cli.Execute()
}
