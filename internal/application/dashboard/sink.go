package dashboard

import "log/slog"

// Sink receives every frame a controller renders.
type Sink interface {
	Render(profileID string, f Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(profileID string, f Frame)

// Render calls fn.
func (fn SinkFunc) Render(profileID string, f Frame) {
	fn(profileID, f)
}

// LogSink logs a one-line description of each frame at debug level.
type LogSink struct {
	Logger *slog.Logger
}

// Render logs the frame.
func (s LogSink) Render(profileID string, f Frame) {
	if s.Logger == nil {
		return
	}
	s.Logger.Debug("frame rendered",
		"profile", profileID,
		"scope", f.Scope,
		"rows", len(f.Table.Items),
		"summary", f.Summary,
	)
}
