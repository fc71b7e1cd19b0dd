package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"talent-backend/internal/bootstrap"
	"talent-backend/internal/shared/config"
	"talent-backend/internal/shared/metrics"
	"talent-backend/internal/shared/telemetry"
	"talent-backend/internal/workerproc"
)

const (
	defaultConcurrency     = 4
	defaultVisibility      = 5 * time.Minute
	defaultShutdownTimeout = 30 * time.Second
	receiveWaitSeconds     = 20
	receiveBatchSize       = 10
)

func main() {
	cfg := config.Load()
	if cfg.QueueURL == "" {
		log.Fatal("QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, bootstrap.Options{SkipRouter: true})
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	concurrency := cfg.Worker.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	visibility := cfg.Worker.VisibilityTimeout
	if visibility <= 0 {
		visibility = defaultVisibility
	}
	shutdownTimeout := cfg.Worker.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	var client sqsAPI = app.SQS.SDK()
	queueURL := app.SQS.QueueURL()
	processors := app.Processors()

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	telemetry.Info("worker.started", map[string]any{
		"queue_url":          queueURL,
		"concurrency":        concurrency,
		"visibility_seconds": int(visibility.Seconds()),
	})

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: receiveBatchSize,
			WaitTimeSeconds:     receiveWaitSeconds,
			VisibilityTimeout:   int32(visibility.Seconds()),
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err.Error()})
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			metrics.IncWorkerJobsReceived()
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				// In-flight jobs finish even after shutdown is requested.
				handleMessage(context.WithoutCancel(ctx), client, queueURL, processors, m)
			}(msg)
		}
	}

	telemetry.Info("worker.shutdown", map[string]any{"timeout": shutdownTimeout.String()})
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		telemetry.Error("worker.shutdown_timeout", map[string]any{"timeout": shutdownTimeout.String()})
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// handleMessage processes one delivery. Messages are deleted on success and
// on unrecoverable errors; transient failures are left for redelivery.
func handleMessage(ctx context.Context, client sqsAPI, queueURL string, p workerproc.Processors, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)

	decoded, meta, err := workerproc.ParseMessage(body)
	if err != nil {
		fields := baseFields(msg, "", "", "")
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		telemetry.Error(parseEvent(err), fields)
		if deleteMessage(ctx, client, queueURL, msg, fields) {
			metrics.IncWorkerJobsDeletedUnrecoverable()
		}
		return
	}

	fields := baseFields(msg, string(decoded.Kind), decoded.CandidateID, decoded.RequestID)
	telemetry.Info("worker.job.received", fields)

	start := time.Now()
	err = workerproc.HandleMessage(workerproc.WithParsedMessage(ctx, decoded), p, body)
	fields["duration_ms"] = metrics.SinceMillis(start)
	if err != nil {
		fields["error"] = err.Error()
		if workerproc.Unrecoverable(err) {
			telemetry.Error("worker.job.unrecoverable", fields)
			if deleteMessage(ctx, client, queueURL, msg, fields) {
				metrics.IncWorkerJobsDeletedUnrecoverable()
			}
			return
		}
		telemetry.Error("worker.job.failed", fields)
		metrics.IncWorkerJobsFailed()
		return
	}

	if deleteMessage(ctx, client, queueURL, msg, fields) {
		telemetry.Info("worker.job.completed", fields)
		metrics.IncWorkerJobsCompleted()
	}
}

func parseEvent(err error) string {
	var (
		empty   workerproc.ErrEmptyBody
		missing workerproc.ErrMissingCandidateID
		unknown workerproc.ErrUnknownKind
	)
	switch {
	case errors.As(err, &empty):
		return "worker.job.empty_body"
	case errors.As(err, &missing):
		return "worker.job.missing_candidate_id"
	case errors.As(err, &unknown):
		return "worker.job.unknown_kind"
	default:
		return "worker.job.decode_failed"
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, fields map[string]any) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		telemetry.Error("worker.job.delete_failed", withError(fields, "missing receipt handle"))
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		telemetry.Error("worker.job.delete_failed", withError(fields, err.Error()))
		return false
	}
	return true
}

func withError(fields map[string]any, msg string) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["delete_error"] = msg
	return out
}

func baseFields(msg sqstypes.Message, kind, candidateID, requestID string) map[string]any {
	fields := map[string]any{
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if kind != "" {
		fields["kind"] = kind
	}
	if candidateID != "" {
		fields["candidate_id"] = candidateID
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	if msg.Attributes == nil {
		return 0
	}
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}
