package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"coursefinder/internal/config"
	"coursefinder/internal/logger"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	retention   = 7 * 24 * time.Hour
	ackDeadline = 60 * time.Second
)

var reset bool

var rootCmd = &cobra.Command{
	Use:   "setup-pubsub-local",
	Short: "Create the course event topics on the Pub/Sub emulator",
	Long:  "Creates the course events topic, its dead letter topic and pull subscriptions on the local Pub/Sub emulator. Existing subscriptions are brought in line with the expected settings.",
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVar(&reset, "reset", false, "Delete every topic and subscription on the emulator first")
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on system environment variables.")
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	logger := logger.New()
	logger.Info().Msg("Starting Pub/Sub setup for the local environment.")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.GCPProjectID == "" {
		return errors.New("GCP_PROJECT_ID is not set")
	}
	if cfg.PubSubEmulatorHost == "" {
		return errors.New("PUBSUB_EMULATOR_HOST must be set for the local environment")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID,
		option.WithEndpoint(cfg.PubSubEmulatorHost),
		option.WithoutAuthentication(),
	)
	if err != nil {
		return fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close Pub/Sub client")
		}
	}()

	if reset {
		if err := resetEmulator(ctx, client, logger); err != nil {
			return err
		}
	}
	if err := ensureCourseEvents(ctx, client, cfg.PubSubCourseEventsTopic, logger); err != nil {
		return err
	}

	logger.Info().Msg("Pub/Sub setup for local environment complete.")
	return nil
}

// resetEmulator deletes every subscription and topic. Emulator only.
func resetEmulator(ctx context.Context, client *pubsub.Client, logger zerolog.Logger) error {
	logger.Info().Msg("Deleting existing resources")

	subs := client.Subscriptions(ctx)
	for {
		sub, err := subs.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list subscriptions: %w", err)
		}
		if err := sub.Delete(ctx); err != nil {
			logger.Warn().Err(err).Str("subscription", sub.ID()).Msg("Failed to delete subscription")
		}
	}

	topics := client.Topics(ctx)
	for {
		topic, err := topics.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list topics: %w", err)
		}
		if err := topic.Delete(ctx); err != nil {
			logger.Warn().Err(err).Str("topic", topic.ID()).Msg("Failed to delete topic")
		}
	}
	return nil
}

func ensureCourseEvents(ctx context.Context, client *pubsub.Client, topicID string, logger zerolog.Logger) error {
	dlqTopic, err := ensureTopic(ctx, client, topicID+"-dlq", logger)
	if err != nil {
		return err
	}
	mainTopic, err := ensureTopic(ctx, client, topicID, logger)
	if err != nil {
		return err
	}

	if err := ensureSubscription(ctx, client, topicID+"-sub", pubsub.SubscriptionConfig{
		Topic:       mainTopic,
		AckDeadline: ackDeadline,
		RetryPolicy: &pubsub.RetryPolicy{
			MinimumBackoff: 10 * time.Second,
			MaximumBackoff: 600 * time.Second,
		},
		DeadLetterPolicy: &pubsub.DeadLetterPolicy{
			DeadLetterTopic:     dlqTopic.String(),
			MaxDeliveryAttempts: 5,
		},
	}, logger); err != nil {
		return err
	}

	return ensureSubscription(ctx, client, topicID+"-dlq-sub", pubsub.SubscriptionConfig{
		Topic:       dlqTopic,
		AckDeadline: ackDeadline,
	}, logger)
}

func ensureTopic(ctx context.Context, client *pubsub.Client, topicID string, logger zerolog.Logger) (*pubsub.Topic, error) {
	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic %s: %w", topicID, err)
	}
	if exists {
		logger.Info().Str("topic", topicID).Msg("Topic already exists")
		return topic, nil
	}

	logger.Info().Str("topic", topicID).Dur("retention", retention).Msg("Creating topic")
	topic, err = client.CreateTopicWithConfig(ctx, topicID, &pubsub.TopicConfig{RetentionDuration: retention})
	if err != nil {
		return nil, fmt.Errorf("failed to create topic %s: %w", topicID, err)
	}
	return topic, nil
}

func ensureSubscription(ctx context.Context, client *pubsub.Client, subID string, want pubsub.SubscriptionConfig, logger zerolog.Logger) error {
	sub := client.Subscription(subID)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check subscription %s: %w", subID, err)
	}
	if !exists {
		logger.Info().Str("subscription", subID).Msg("Creating pull subscription")
		if _, err := client.CreateSubscription(ctx, subID, want); err != nil {
			return fmt.Errorf("failed to create subscription %s: %w", subID, err)
		}
		return nil
	}

	have, err := sub.Config(ctx)
	if err != nil {
		return fmt.Errorf("failed to read subscription %s: %w", subID, err)
	}
	if have.AckDeadline == want.AckDeadline && sameRetry(have.RetryPolicy, want.RetryPolicy) {
		logger.Info().Str("subscription", subID).Msg("Configuration is up to date")
		return nil
	}

	logger.Info().Str("subscription", subID).Msg("Updating subscription")
	if _, err := sub.Update(ctx, pubsub.SubscriptionConfigToUpdate{
		AckDeadline: want.AckDeadline,
		RetryPolicy: want.RetryPolicy,
	}); err != nil {
		return fmt.Errorf("failed to update subscription %s: %w", subID, err)
	}
	return nil
}

func sameRetry(a, b *pubsub.RetryPolicy) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.MinimumBackoff == b.MinimumBackoff && a.MaximumBackoff == b.MaximumBackoff
}
