package orders

import (
	"testing"
	"time"
)

func TestValidDateKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"2025-07-18", true},
		{"2024-02-29", true},
		{"2025-02-29", false},
		{"2025-7-18", false},
		{"2025-07-18T00:00:00Z", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidDateKey(tt.key); got != tt.want {
			t.Errorf("ValidDateKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestDateKey_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	instant := time.Date(2025, 7, 24, 20, 0, 0, 0, time.UTC)

	if got := DateKey(instant); got != "2025-07-24" {
		t.Errorf("DateKey(UTC) = %q, want 2025-07-24", got)
	}
	if got := DateKey(instant.In(loc)); got != "2025-07-25" {
		t.Errorf("DateKey(UTC+10) = %q, want 2025-07-25", got)
	}
}

func TestMutation_ApplyTo(t *testing.T) {
	now := time.Date(2025, 7, 25, 2, 0, 0, 0, time.UTC)
	order := &Order{
		ID:     "order-1",
		Status: "active",
		DailyStatuses: map[string]DailyStatus{
			"2025-07-10": DailyStatus(`{"status":"delivered"}`),
			"2025-07-20": DailyStatus(`{"status":"pending"}`),
		},
	}

	m := Mutation{
		OrderID:       "order-1",
		DailyStatuses: map[string]DailyStatus{"2025-07-20": DailyStatus(`{"status":"pending"}`)},
		UpdatedAt:     now,
		AuditField:    AuditLastManualCleanup,
	}
	m.ApplyTo(order)

	if len(order.DailyStatuses) != 1 {
		t.Fatalf("expected 1 daily status, got %d", len(order.DailyStatuses))
	}
	if _, ok := order.DailyStatuses["2025-07-20"]; !ok {
		t.Error("2025-07-20 should be kept")
	}
	if !order.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", order.UpdatedAt, now)
	}
	if order.LastManualCleanup == nil || !order.LastManualCleanup.Equal(now) {
		t.Errorf("LastManualCleanup = %v, want %v", order.LastManualCleanup, now)
	}
	if order.LastCleanup != nil {
		t.Error("LastCleanup should not be stamped by a manual mutation")
	}
	if order.Status != "active" {
		t.Errorf("Status changed to %q", order.Status)
	}
}

func TestMutation_Patch(t *testing.T) {
	now := time.Now().UTC()
	patch := Mutation{OrderID: "x", UpdatedAt: now, AuditField: AuditLastCleanup}.Patch()

	if len(patch) != 3 {
		t.Fatalf("expected 3 patched fields, got %d: %v", len(patch), patch)
	}
	if _, ok := patch["lastCleanup"]; !ok {
		t.Error("patch should stamp lastCleanup")
	}
	statuses, ok := patch["dailyStatuses"].(map[string]DailyStatus)
	if !ok || statuses == nil {
		t.Errorf("dailyStatuses should be an empty map, got %#v", patch["dailyStatuses"])
	}
}

func TestOrder_CloneIsDeep(t *testing.T) {
	stamp := time.Now()
	order := &Order{
		ID:            "order-1",
		Fields:        map[string]any{"address": map[string]any{"city": "Lisbon"}},
		DailyStatuses: map[string]DailyStatus{"2025-07-20": DailyStatus(`{"status":"pending"}`)},
		LastCleanup:   &stamp,
	}

	c := order.Clone()
	copy(c.DailyStatuses["2025-07-20"], `{"status":"skipped"}`)
	c.Fields["address"].(map[string]any)["city"] = "Porto"
	*c.LastCleanup = stamp.Add(time.Hour)

	if string(order.DailyStatuses["2025-07-20"]) != `{"status":"pending"}` {
		t.Error("clone aliases dailyStatuses payloads")
	}
	if order.Fields["address"].(map[string]any)["city"] != "Lisbon" {
		t.Error("clone aliases nested fields")
	}
	if !order.LastCleanup.Equal(stamp) {
		t.Error("clone aliases LastCleanup")
	}
}
