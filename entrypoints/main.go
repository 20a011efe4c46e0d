package main

import (
	"github.com/Laisky/telegram-file-bot/cmd"
)

func main() {
	cmd.Execute()
}
