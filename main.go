package main

import (
	"github.com/axellelanca/adtracker/cmd"
	_ "github.com/axellelanca/adtracker/cmd/cli"
	_ "github.com/axellelanca/adtracker/cmd/server"
)

func main() {
	cmd.Execute()
}
