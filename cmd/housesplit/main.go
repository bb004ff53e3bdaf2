package main

import "github.com/mmynk/housesplit/internal/cli"

func main() {
	cli.Execute()
}
