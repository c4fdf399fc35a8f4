package main

import (
	"log"

	"github.com/CI-CMG/polar-processor/cmd"
)

func main() {
	err := cmd.Run()
	if err != nil {
		log.Fatal(err.Error())
	}
}
