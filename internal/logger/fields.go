package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/matching"
)

const (
	FieldRunID         = "run_id"
	FieldRequestID     = "request_id"
	FieldOpportunityID = "opportunity_id"
	FieldProfileID     = "profile_id"
	FieldScore         = "score"
	FieldConfidence    = "confidence"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// MatchFields describes a scored match.
func MatchFields(result matching.MatchResult) []zap.Field {
	fields := StringFields(
		StringField{Key: FieldOpportunityID, Value: result.OpportunityID},
		StringField{Key: FieldProfileID, Value: result.ProfileID},
	)
	return append(fields,
		zap.Int(FieldScore, result.Score),
		zap.Float64(FieldConfidence, result.Confidence),
	)
}

// WithRun tags every entry of a matching run with its identifier.
func WithRun(logger *zap.Logger, runID string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldRunID, Value: runID})...)
}
