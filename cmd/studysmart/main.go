package main

import "studysmart/cmd/studysmart/root"

func main() {
	root.Execute()
}
