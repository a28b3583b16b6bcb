package main

import (
	"os"

	"github.com/restopos/restopos/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
