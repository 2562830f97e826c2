package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"mealkit-hq/backoffice/pkg/orders"
)

// encodeOrder serializes an order into its stored document form.
func encodeOrder(order *orders.Order) ([]byte, error) {
	data, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order %s: %w", order.ID, err)
	}
	return data, nil
}

// decodeOrder parses a stored document. Status payloads stay raw.
func decodeOrder(data []byte) (*orders.Order, error) {
	var order orders.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order document: %w", err)
	}
	return &order, nil
}

// patchDocument applies a mutation to a raw JSON document. Only the top-level
// keys the mutation writes are replaced; every other key keeps its original
// encoded bytes.
func patchDocument(raw []byte, m orders.Mutation) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode order document %s: %w", m.OrderID, err)
	}
	if doc == nil {
		doc = make(map[string]json.RawMessage)
	}

	for key, value := range m.Patch() {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s for order %s: %w", key, m.OrderID, err)
		}
		doc[key] = encoded
	}

	return json.Marshal(doc)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
