package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// initLogging configura o slog padrão. Os logs vão para stderr para não
// misturar com os relatórios impressos em stdout.
func initLogging(out *os.File, logLevel string, logFormat string) {
	switch strings.ToLower(logFormat) {
	case "json":
		slog.SetDefault(slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: slogLevel(logLevel),
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				switch a.Key {
				case slog.LevelKey:
					a.Key = "severity"
					return a
				case slog.MessageKey:
					a.Key = "message"
					return a
				default:
					return a
				}
			},
		})))
	default:
		slog.SetDefault(slog.New(tint.NewHandler(out, &tint.Options{
			Level:   slogLevel(logLevel),
			NoColor: !isatty.IsTerminal(out.Fd()),
		})))
	}
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
