//go:build !linux

package netwatch

import "log/slog"

func platformHints(*slog.Logger) []HintSource { return nil }
