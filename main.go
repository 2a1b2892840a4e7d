package main

import "github.com/iksnae/var-manager/cmd"

func main() {
	cmd.Execute()
}
