package scmsauth

import (
	"io"
	"log/slog"

	"github.com/MrEthical07/scmsauth/internal/audit"
)

// AuditEvent is one audit record. See the event type constants in
// authority_audit.go for the emitted kinds.
type AuditEvent = audit.Event

// AuditSink receives audit events from the authority's dispatcher.
type AuditSink = audit.Sink

type NoOpSink = audit.NoOpSink

type ChannelSink = audit.ChannelSink

type JSONWriterSink = audit.JSONWriterSink

type SlogSink = audit.SlogSink

func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// NewSlogSink logs audit events through logger, or slog.Default when nil.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return audit.NewSlogSink(logger)
}
