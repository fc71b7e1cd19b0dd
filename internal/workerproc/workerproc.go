package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"talent-backend/internal/candidatemetrics"
	"talent-backend/internal/matching"
	"talent-backend/internal/queue"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrMissingCandidateID indicates a message missing the candidate id.
type ErrMissingCandidateID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingCandidateID) Error() string { return "missing candidate id" }

// ErrUnknownKind indicates a message naming a job this worker does not run.
type ErrUnknownKind struct {
	Kind      queue.Kind
	RequestID string
}

func (e ErrUnknownKind) Error() string { return "unknown message kind " + string(e.Kind) }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	Kind        queue.Kind
	CandidateID string
	RequestID   string
	Err         error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process " + string(e.Kind)
	}
	return "process " + string(e.Kind) + ": " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Unrecoverable reports whether retrying the message can never succeed.
func Unrecoverable(err error) bool {
	var (
		empty   ErrEmptyBody
		decode  ErrDecode
		missing ErrMissingCandidateID
		unknown ErrUnknownKind
	)
	switch {
	case errors.As(err, &empty), errors.As(err, &decode), errors.As(err, &missing), errors.As(err, &unknown):
		return true
	case errors.Is(err, matching.ErrProfileNotFound),
		errors.Is(err, candidatemetrics.ErrCandidateNotFound),
		errors.Is(err, candidatemetrics.ErrInvalidPeriod):
		return true
	default:
		return false
	}
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.CandidateID) == "" {
		return msg, meta, ErrMissingCandidateID{Meta: meta, RequestID: msg.RequestID}
	}
	switch msg.Kind {
	case queue.KindRecommendations, queue.KindMetrics:
	default:
		return msg, meta, ErrUnknownKind{Kind: msg.Kind, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// Recommender runs recommendation generation.
type Recommender interface {
	GenerateRecommendations(ctx context.Context, candidateID string) ([]matching.MatchResult, error)
}

// Calculator runs the metrics aggregation.
type Calculator interface {
	CalculateMetrics(ctx context.Context, candidateID string, period candidatemetrics.Period) (candidatemetrics.Summary, error)
}

// Processors are the services a message can be dispatched to.
type Processors struct {
	Recommendations Recommender
	Metrics         Calculator
}

// HandleMessage parses, validates, and processes a message payload.
func HandleMessage(ctx context.Context, p Processors, body string) error {
	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(msg.CandidateID) == "" {
		return ErrMissingCandidateID{Meta: ComputeMeta(body), RequestID: msg.RequestID}
	}

	var err error
	switch msg.Kind {
	case queue.KindRecommendations:
		if p.Recommendations == nil {
			return errors.New("recommendation service not configured")
		}
		_, err = p.Recommendations.GenerateRecommendations(ctx, msg.CandidateID)
	case queue.KindMetrics:
		if p.Metrics == nil {
			return errors.New("metrics service not configured")
		}
		period := candidatemetrics.Weekly
		if msg.Period != "" {
			period = candidatemetrics.Period(msg.Period)
		}
		_, err = p.Metrics.CalculateMetrics(ctx, msg.CandidateID, period)
	default:
		return ErrUnknownKind{Kind: msg.Kind, RequestID: msg.RequestID}
	}
	if err != nil {
		return ErrProcess{Kind: msg.Kind, CandidateID: msg.CandidateID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
