package main

import (
	"log/slog"

	"github.com/dmaguire/streaks/cmd"
	"github.com/dmaguire/streaks/internal/logger"
)

func main() {
	logger.Init(slog.LevelInfo)
	cmd.Execute()
}
