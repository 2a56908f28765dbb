package backend

import (
	"bytes"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// The API wraps every payload as {"data": {"<collection>": [...]}}. Shapes
// that do not match decode to an empty collection rather than an error.
// Records are decoded one at a time so a single bad document only costs
// itself.

type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (e envelope) employees(logger *zap.Logger) []domain.Employee {
	return decodeRecords[domain.Employee](collection(e.Data, "employees", logger), "employees", logger)
}

func (e envelope) tickets(logger *zap.Logger) []domain.Ticket {
	return decodeRecords[domain.Ticket](collection(e.Data, "tickets", logger), "tickets", logger)
}

func collection(data json.RawMessage, name string, logger *zap.Logger) []json.RawMessage {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		logger.Warn("response carries no data", zap.String("collection", name))
		return nil
	}

	var inner map[string]json.RawMessage
	if err := json.Unmarshal(data, &inner); err != nil {
		logger.Warn("unexpected response shape", zap.String("collection", name), zap.Error(err))
		return nil
	}
	raw, ok := inner[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		logger.Warn("response is missing collection", zap.String("collection", name))
		return nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.Warn("collection is not a list", zap.String("collection", name), zap.Error(err))
		return nil
	}
	return records
}

func decodeRecords[T any](records []json.RawMessage, name string, logger *zap.Logger) []T {
	out := make([]T, 0, len(records))
	for i, raw := range records {
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			logger.Warn("skipping undecodable record",
				zap.String("collection", name),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		out = append(out, record)
	}
	return out
}
