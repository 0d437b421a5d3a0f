package sinks

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/noleforte/DRAW-sub001/logging"
)

// Console renders events as structured log lines via logrus.
type Console struct {
	logger *logrus.Logger
}

func NewConsole(w io.Writer) *Console {
	logger := logrus.New()
	if w != nil {
		logger.SetOutput(w)
	}
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return &Console{logger: logger}
}

func (s *Console) Write(event logging.Event) error {
	if s.logger == nil {
		return nil
	}
	entry := s.logger.WithFields(logrus.Fields{
		"tick":  event.Tick,
		"actor": formatEntity(event.Actor),
	})
	if event.Category != "" {
		entry = entry.WithField("category", event.Category)
	}
	if event.Payload != nil {
		entry = entry.WithField("payload", event.Payload)
	}
	for k, v := range event.Extra {
		entry = entry.WithField(k, v)
	}

	switch event.Severity {
	case logging.SeverityDebug:
		entry.Debug(string(event.Type))
	case logging.SeverityWarn:
		entry.Warn(string(event.Type))
	case logging.SeverityError:
		entry.Error(string(event.Type))
	default:
		entry.Info(string(event.Type))
	}
	return nil
}

func (s *Console) Close(context.Context) error {
	return nil
}

func formatEntity(ref logging.EntityRef) string {
	if ref.ID == "" {
		return string(ref.Kind)
	}
	if ref.Kind == "" {
		return ref.ID
	}
	return string(ref.Kind) + ":" + ref.ID
}
