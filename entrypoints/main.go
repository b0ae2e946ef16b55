package main

import (
	"github.com/Laisky/laisky-files-api/cmd"
)

func main() {
	cmd.Execute()
}
