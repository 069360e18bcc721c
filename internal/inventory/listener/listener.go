package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-pricing-service/internal/document"
	"github.com/fekuna/omnipos-pricing-service/internal/inventory"
	"github.com/fekuna/omnipos-pricing-service/pkg/hashid"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventRecordsImported = "RecordsImported"

// MessageReader is satisfied by broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// ImportRecorder is satisfied by metrics.Metrics.
type ImportRecorder interface {
	RecordsImported(n int)
}

type ImportListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	codec    *hashid.Codec
	recorder ImportRecorder
	logger   logger.ZapLogger
}

// NewImportListener builds the listener. recorder may be nil.
func NewImportListener(consumer MessageReader, uc inventory.UseCase, codec *hashid.Codec, recorder ImportRecorder, logger logger.ZapLogger) *ImportListener {
	return &ImportListener{
		consumer: consumer,
		uc:       uc,
		codec:    codec,
		recorder: recorder,
		logger:   logger,
	}
}

func (l *ImportListener) Start(ctx context.Context) {
	l.logger.Info("Starting Import Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Import Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			if err := l.processMessage(ctx, msg.Value); err != nil {
				l.logger.Error("Failed to import records", zap.ByteString("key", msg.Key), zap.Error(err))
			}
		}
	}
}

type RecordsImportedEvent struct {
	EventID   string        `json:"event_id"`
	EventType string        `json:"event_type"`
	Payload   ImportPayload `json:"payload"`
	Timestamp time.Time     `json:"timestamp"`
}

type ImportPayload struct {
	Location string               `json:"location"` // opaque location token
	Records  []*document.Document `json:"records"`
}

// processMessage imports one event. Events of other types are skipped.
func (l *ImportListener) processMessage(ctx context.Context, value []byte) error {
	var event RecordsImportedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	if event.EventType != EventRecordsImported {
		return nil
	}

	batchID := event.EventID
	if batchID == "" {
		batchID = uuid.NewString()
	}

	locationID, err := l.codec.DecodeSingle(event.Payload.Location)
	if err != nil {
		return err
	}

	l.logger.Info("Processing RecordsImported event",
		zap.String("batch_id", batchID),
		zap.Uint64("location_id", locationID),
		zap.Int("records", len(event.Payload.Records)),
	)

	ids, err := l.uc.AddRecords(ctx, locationID, event.Payload.Records)
	if err != nil {
		return err
	}

	if l.recorder != nil {
		l.recorder.RecordsImported(len(ids))
	}
	l.logger.Debug("Imported records", zap.String("batch_id", batchID), zap.Int("count", len(ids)))
	return nil
}
