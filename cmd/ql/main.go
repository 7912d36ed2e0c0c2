package main

import "liferpg/cmd/ql/root"

func main() {
	root.Execute()
}
