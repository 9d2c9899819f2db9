package application

import "log/slog"

const ModuleName = "peer-review/referee-assignment-service"

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
