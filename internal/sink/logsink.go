package sink

import (
	"context"
	"encoding/json"
	"log"

	"github.com/quietpath/quietpath/internal/event"
)

type LogSink struct{}

func NewLogSink() *LogSink { return &LogSink{} }

func (s *LogSink) Start(ctx context.Context) error { return nil }

func (s *LogSink) Enqueue(e event.Issued) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	log.Printf("issued %s", string(b))
	return nil
}

func (s *LogSink) Close() error { return nil }

func (s *LogSink) Name() string { return "log" }
