package main

import "aquashop/cmd"

func main() {
	cmd.Execute()
}
