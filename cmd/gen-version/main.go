package main

import "github.com/oshokin/gen-version/cmd/gen-version/cmd"

func main() {
	cmd.Execute()
}
