package main

import (
	"os"

	"github.com/similvitoria/IC-IA-LLMChatbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
