package main

import (
	"boscoin.io/congress/cmd/congress/cmd"
)

func main() {
	cmd.Execute()
}
