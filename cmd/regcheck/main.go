package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/JonMunkholm/regform/internal/cli"
	"github.com/JonMunkholm/regform/internal/core"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// Optional; NO_COLOR and friends may live in .env
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		if !errors.Is(err, core.ErrValidation) {
			fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		}
		os.Exit(1)
	}
}
