package main

import "github.com/foldedcode/wic/cmd"

func main() {
	cmd.Execute()
}
