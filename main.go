package main

import "leitor/cmd"

func main() {
	cmd.Execute()
}
