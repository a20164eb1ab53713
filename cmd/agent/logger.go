package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

func newLogger(output io.Writer) *slog.Logger {
	handler := tint.NewHandler(output, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})
	return slog.New(handler)
}
