package main

import (
	"fmt"
	"os"

	"github.com/kolah/tessa/internal/cli"
)

func main() {
	cmd := cli.RootCmd()
	cmd.SetOut(os.Stdout)
	err := cmd.Execute()
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
