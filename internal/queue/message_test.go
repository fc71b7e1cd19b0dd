package queue

import (
	"strings"
	"testing"
	"time"
)

func TestNewMessageStampsVersionAndTime(t *testing.T) {
	msg := NewMessage(KindMetrics, "cand-1", "weekly", "req-1")
	if msg.Version != MessageVersion {
		t.Fatalf("version = %d, want %d", msg.Version, MessageVersion)
	}
	if _, err := time.Parse(time.RFC3339, msg.EnqueuedAt); err != nil {
		t.Fatalf("enqueuedAt not RFC3339: %q", msg.EnqueuedAt)
	}
}

func TestEncodeMessageUsesCamelCaseKeys(t *testing.T) {
	payload, err := EncodeMessage(Message{Kind: KindRecommendations, CandidateID: "cand-1", RequestID: "req-1", Version: 1})
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}
	body := string(payload)
	for _, want := range []string{`"kind":"recommendations"`, `"candidateId":"cand-1"`, `"requestId":"req-1"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("payload %s missing %s", body, want)
		}
	}
	if strings.Contains(body, "period") {
		t.Fatalf("empty period should be omitted: %s", body)
	}
}

func TestDecodeMessageRejectsInvalidJSON(t *testing.T) {
	if _, err := DecodeMessage([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}
