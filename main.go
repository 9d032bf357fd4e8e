package main

import "github.com/mlprep/dsbuild/cmd"

func main() {
	cmd.Execute()
}
