package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spacesedan/reviewflow/config"
	"github.com/spacesedan/reviewflow/internal/clients"
	"github.com/spacesedan/reviewflow/internal/clients/kafka_client"
	"github.com/spacesedan/reviewflow/internal/db"
	"github.com/spacesedan/reviewflow/internal/monitoring"
	"github.com/spacesedan/reviewflow/internal/scoring"
	"github.com/spacesedan/reviewflow/internal/sentiment"
)

const classifierTimeout = 60 * time.Second

type dependencies struct {
	classifier sentiment.Classifier
	sinks      []scoring.Sink
	closers    []func()
}

func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// buildDependencies wires the classifier backend, the optional score cache
// and the optional result sinks from configuration.
func buildDependencies(ctx context.Context, cfg config.Config) (*dependencies, error) {
	deps := &dependencies{}

	classifier, err := newClassifier(ctx, cfg, deps)
	if err != nil {
		deps.Close()
		return nil, err
	}

	if cfg.ValkeyAddress != "" {
		cache, err := clients.NewValkeyClient(ctx, clients.ValkeyOptions{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			TLS:      cfg.ValkeyTLS,
			TTL:      cfg.ScoreCacheTTL,
		})
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.closers = append(deps.closers, cache.Close)
		classifier = sentiment.NewCachedClassifier(classifier, cache)
	}
	deps.classifier = classifier

	if cfg.SeverityTable != "" {
		dynamo, err := clients.NewDynamoDBClient(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.sinks = append(deps.sinks, db.NewSeverityStore(dynamo, cfg.SeverityTable))
	}

	if cfg.KafkaSeverityTopic != "" {
		producer, err := kafka_client.NewProducer(ctx, kafka_client.NewKafkaConfig(cfg.KafkaBroker, cfg.KafkaSeverityTopic))
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.closers = append(deps.closers, func() { _ = producer.Close() })
		deps.sinks = append(deps.sinks, producer)
	}

	return deps, nil
}

func newClassifier(ctx context.Context, cfg config.Config, deps *dependencies) (sentiment.Classifier, error) {
	slog.Info("[Scorer] Initializing classifier", slog.String("backend", cfg.Backend))

	switch cfg.Backend {
	case config.BackendHugot:
		c, err := sentiment.NewHugotClassifier(sentiment.HugotOptions{
			ModelName:    cfg.ModelName,
			ModelDir:     cfg.ModelDir,
			OnnxFilename: cfg.ModelOnnxFile,
			Runtime:      cfg.HugotRuntime,
			LibraryPath:  cfg.OnnxLibraryPath,
			AuthToken:    cfg.HFAPIToken,
		})
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, closeQuietly(c))
		return c, nil

	case config.BackendRemote:
		hf := clients.NewHuggingFaceClient(cfg.ClassifierEndpoint, cfg.HFAPIToken, classifierTimeout)
		if !hf.HealthCheck(ctx) {
			return nil, fmt.Errorf("classifier endpoint %s is not healthy", cfg.ClassifierEndpoint)
		}
		monitorCtx, cancel := context.WithCancel(ctx)
		go monitoring.MonitorClassifierHealth(monitorCtx, hf, monitoring.HEALTHCHECK_INTERVAL)
		deps.closers = append(deps.closers, cancel)
		return sentiment.NewRemoteClassifier(hf, cfg.ModelName), nil

	case config.BackendOpenAI:
		ai, err := clients.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, err
		}
		return sentiment.NewLLMClassifier(ai, cfg.OpenAIModel), nil

	case config.BackendVader:
		return sentiment.NewVaderClassifier(), nil

	default:
		return nil, errors.New("unknown CLASSIFIER_BACKEND " + cfg.Backend)
	}
}

func closeQuietly(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			slog.Warn("[Scorer] Failed to release classifier",
				slog.String("error", err.Error()))
		}
	}
}
