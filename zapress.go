package main

import (
	"flag"

	"github.com/LeeDigitalWorks/zapress/cmd"
)

func main() {
	flag.Parse()

	cmd.Execute()
}
