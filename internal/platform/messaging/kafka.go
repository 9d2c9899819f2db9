package messaging

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"

	contractsv1 "refdesk/contracts/gen/events/v1"
)

// ErrBackpressure is returned when a consumer group's buffer is full and the
// event could not be handed to it.
var ErrBackpressure = errors.New("consumer group buffer full")

const memberBuffer = 128

// Kafka is the event bus the outbox relay and invitation notifier publish to.
// Each consumer group on a topic receives every event once; within a group the
// member is picked by partition key, so one paper's events stay in order.
// Delivery is in-process; configured brokers are only reported in logs.
type Kafka struct {
	mu      sync.RWMutex
	topics  map[string]map[string][]chan contractsv1.Envelope
	brokers []string
	logger  *slog.Logger
}

func NewKafka(brokers []string, logger *slog.Logger) (*Kafka, error) {
	return &Kafka{
		topics:  make(map[string]map[string][]chan contractsv1.Envelope),
		brokers: append([]string(nil), brokers...),
		logger:  logger,
	}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	targets := k.route(topic, event.PartitionKey)

	var errs []error
	for group, member := range targets {
		select {
		case member <- event:
		default:
			if k.logger != nil {
				k.logger.Warn("consumer group buffer full",
					"event", "kafka_publish_backpressure",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", topic,
					"consumer_group", group,
					"event_id", event.EventID,
				)
			}
			errs = append(errs, fmt.Errorf("%w: topic %s group %s", ErrBackpressure, topic, group))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if k.logger != nil {
		k.logger.Info("event published",
			"event", "kafka_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
			"partition_key", event.PartitionKey,
			"group_count", len(targets),
			"brokers", strings.Join(k.brokers, ","),
		)
	}
	return nil
}

// Subscribe joins consumerGroup on topic until ctx is done.
func (k *Kafka) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, contractsv1.Envelope) error,
) error {
	if handler == nil {
		return errors.New("subscribe: handler is required")
	}
	ch := make(chan contractsv1.Envelope, memberBuffer)

	k.mu.Lock()
	groups, ok := k.topics[topic]
	if !ok {
		groups = make(map[string][]chan contractsv1.Envelope)
		k.topics[topic] = groups
	}
	groups[consumerGroup] = append(groups[consumerGroup], ch)
	k.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				k.leave(topic, consumerGroup, ch)
				return
			case event := <-ch:
				if err := handler(ctx, event); err != nil && k.logger != nil {
					k.logger.Error("consumer handler failed",
						"event", "kafka_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

// route picks one member channel per consumer group of topic.
func (k *Kafka) route(topic string, partitionKey string) map[string]chan contractsv1.Envelope {
	k.mu.RLock()
	defer k.mu.RUnlock()

	groups := k.topics[topic]
	targets := make(map[string]chan contractsv1.Envelope, len(groups))
	for group, members := range groups {
		if len(members) == 0 {
			continue
		}
		targets[group] = members[partition(partitionKey, len(members))]
	}
	return targets
}

func partition(key string, members int) int {
	if members <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(members))
}

func (k *Kafka) leave(topic string, group string, target chan contractsv1.Envelope) {
	k.mu.Lock()
	defer k.mu.Unlock()

	groups := k.topics[topic]
	members := groups[group]
	filtered := make([]chan contractsv1.Envelope, 0, len(members))
	for _, item := range members {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == 0 {
		delete(groups, group)
	} else {
		groups[group] = filtered
	}
	if len(groups) == 0 {
		delete(k.topics, topic)
	}
}
