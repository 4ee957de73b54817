package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"foodgram-go/internal/config"
	"foodgram-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// 菜谱事件类型
const (
	RecipeCreated = "recipe.created"
	RecipeUpdated = "recipe.updated"
	RecipeDeleted = "recipe.deleted"
)

// RecipeEvent 菜谱变更消息体
type RecipeEvent struct {
	Type       string    `json:"type"`
	RecipeID   int64     `json:"recipe_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer 菜谱事件生产者
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer 初始化 Kafka 生产者
func NewProducer(cfg *config.KafkaConfig) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.RecipeEventsTopic()),
	)

	return &Producer{writer: w, topic: cfg.RecipeEventsTopic()}
}

// PublishRecipeEvent 发送菜谱事件，同一菜谱的事件落在同一分区
func (p *Producer) PublishRecipeEvent(ctx context.Context, eventType string, recipeID int64) error {
	payload, err := json.Marshal(&RecipeEvent{
		Type:       eventType,
		RecipeID:   recipeID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal recipe event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(strconv.FormatInt(recipeID, 10)),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send recipe event: %w", err)
	}

	logger.Debug("Recipe event sent",
		zap.String("type", eventType),
		zap.Int64("recipe_id", recipeID),
	)
	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	logger.Info("Kafka producer closed")
	return p.writer.Close()
}
