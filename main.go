package main

import "mgzdb/cmd"

func main() {
	cmd.Execute()
}
