package main

import (
	"os"

	"github.com/soundprediction/go-kag/cmd/kag"
)

func main() {
	if err := kag.Execute(); err != nil {
		os.Exit(1)
	}
}
