package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/job-matcher/internal/matching"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  opportunity_id  ", Value: "  hh-123  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "opportunity_id" || fields[0].String != "hh-123" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}

	empty := StringFields()
	if len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithFields(logger, zap.String("foo", "bar"))
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	enriched = WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	enriched.Info("another log")
}

func TestMatchFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	logger.Info("scored", MatchFields(matching.MatchResult{
		OpportunityID: "opp-1",
		ProfileID:     "seeker",
		Score:         91,
		Confidence:    0.75,
	})...)

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldOpportunityID] != "opp-1" {
		t.Fatalf("expected opportunity id opp-1, got %v", ctx[FieldOpportunityID])
	}
	if ctx[FieldProfileID] != "seeker" {
		t.Fatalf("expected profile id seeker, got %v", ctx[FieldProfileID])
	}
	if ctx[FieldScore] != int64(91) {
		t.Fatalf("expected score 91, got %v", ctx[FieldScore])
	}
	if ctx[FieldConfidence] != 0.75 {
		t.Fatalf("expected confidence 0.75, got %v", ctx[FieldConfidence])
	}
}

func TestWithRun(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithRun(zap.New(core), " run-42 ").Info("started")
	WithRun(zap.New(core), "").Info("no run")

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if got := entries[0].ContextMap()[FieldRunID]; got != "run-42" {
		t.Fatalf("expected run id run-42, got %v", got)
	}
	if _, ok := entries[1].ContextMap()[FieldRunID]; ok {
		t.Fatalf("expected no run id field for empty value")
	}
}

func TestNew(t *testing.T) {
	for _, json := range []bool{false, true} {
		l, err := New(json, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !l.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("expected debug level enabled")
		}
	}
}
