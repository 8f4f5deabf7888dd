package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"storefront/internal/usecase"

	kafkaGo "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

// 注文作成をKafkaに流す。キーは注文ID。
type KafkaOrderPublisher struct {
	w messageWriter
}

var _ usecase.OrderEventPublisher = (*KafkaOrderPublisher)(nil)

// 同期書き込みなのでチェックアウトの応答時間に直接乗る。
// 既定値（BatchTimeout 1s・10回リトライ）だと1件ごとに1秒待つ。
const (
	writerBatchTimeout = 10 * time.Millisecond
	writerWriteTimeout = 2 * time.Second
	writerMaxAttempts  = 3
)

func NewKafkaOrderPublisher(brokers []string, topic string) *KafkaOrderPublisher {
	return &KafkaOrderPublisher{
		w: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafkaGo.Hash{},
			RequiredAcks:           kafkaGo.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           writerBatchTimeout,
			WriteTimeout:           writerWriteTimeout,
			MaxAttempts:            writerMaxAttempts,
		},
	}
}

func (p *KafkaOrderPublisher) PublishOrderCreated(ctx context.Context, ev usecase.OrderCreatedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.w.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(strconv.FormatInt(ev.OrderID, 10)),
		Value: payload,
		Headers: []kafkaGo.Header{
			{Key: "event", Value: []byte("order.created")},
		},
	}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

func (p *KafkaOrderPublisher) Close() error {
	return p.w.Close()
}

// ブローカー未設定のとき用
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, usecase.OrderCreatedEvent) error {
	return nil
}
