package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rafiql/voice-session-service/src/models"
	"github.com/rafiql/voice-session-service/src/repository"
)

// recordingEmitter captures emitted events for assertions.
type recordingEmitter struct {
	events   []string
	payloads []any
}

func (e *recordingEmitter) Emit(name string, payload any) {
	e.events = append(e.events, name)
	e.payloads = append(e.payloads, payload)
}

func newTestService() (*SessionService, *repository.MemorySessionStore, *recordingEmitter) {
	store := repository.NewMemorySessionStore()
	emitter := &recordingEmitter{}
	return NewSessionService(store, emitter), store, emitter
}

func TestCreate(t *testing.T) {
	svc, _, _ := newTestService()

	session, err := svc.Create(context.Background(), "+1234567890", "b1", map[string]any{"voice": "default"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if session.ID == "" {
		t.Error("Create returned empty id")
	}
	if session.Status != models.StatusActive {
		t.Errorf("status = %q, want %q", session.Status, models.StatusActive)
	}
	if session.StartedAt.IsZero() {
		t.Error("started_at is zero")
	}
	if session.EndedAt != nil || session.Outcome != nil || session.Summary != nil || session.DurationSeconds != nil {
		t.Error("terminal fields must be nil on a fresh session")
	}
	if session.CallerPhone != "+1234567890" || session.BusinessID != "b1" {
		t.Errorf("identifying fields not preserved: %+v", session)
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		session, err := svc.Create(ctx, "+1234567890", "b1", map[string]any{})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if seen[session.ID] {
			t.Fatalf("id %q assigned twice", session.ID)
		}
		seen[session.ID] = true
	}
}

func TestGetNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Get(context.Background(), "nonexistent")
	if !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("Get returned %v, want ErrSessionNotFound", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Create(ctx, "+1234567890", "b1", map[string]any{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, session.ID, models.StatusTransferring)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != models.StatusTransferring {
		t.Errorf("status = %q, want %q", updated.Status, models.StatusTransferring)
	}
}

func TestUpdateStatusInvalid(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Create(ctx, "+1234567890", "b1", map[string]any{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = svc.UpdateStatus(ctx, session.ID, models.SessionStatus("exploded"))
	if !errors.Is(err, models.ErrInvalidSessionStatus) {
		t.Fatalf("UpdateStatus returned %v, want ErrInvalidSessionStatus", err)
	}

	// Record must be untouched
	stored, _ := store.FindByID(ctx, session.ID)
	if stored.Status != models.StatusActive {
		t.Errorf("invalid status mutated the record: status = %q", stored.Status)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpdateStatus(context.Background(), "nonexistent", models.StatusOnHold)
	if !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("UpdateStatus returned %v, want ErrSessionNotFound", err)
	}
}

func TestUpdateStatusPermissiveFromTerminal(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Create(ctx, "+1234567890", "b1", map[string]any{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.End(ctx, session.ID, "qualified", "done"); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	// Transitions out of terminal states are deliberately not blocked
	updated, err := svc.UpdateStatus(ctx, session.ID, models.StatusActive)
	if err != nil {
		t.Fatalf("UpdateStatus out of completed failed: %v", err)
	}
	if updated.Status != models.StatusActive {
		t.Errorf("status = %q, want %q", updated.Status, models.StatusActive)
	}
}

func TestEnd(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Create(ctx, "+1234567890", "b1", map[string]any{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ended, err := svc.End(ctx, session.ID, "qualified", "callback requested")
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}

	if ended.Status != models.StatusCompleted {
		t.Errorf("status = %q, want %q", ended.Status, models.StatusCompleted)
	}
	if ended.EndedAt == nil {
		t.Fatal("ended_at is nil after End")
	}
	if ended.Outcome == nil || *ended.Outcome != "qualified" {
		t.Errorf("outcome = %v, want qualified", ended.Outcome)
	}
	if ended.Summary == nil || *ended.Summary != "callback requested" {
		t.Errorf("summary = %v, want callback requested", ended.Summary)
	}
	if ended.DurationSeconds == nil {
		t.Fatal("duration_seconds is nil after End")
	}
	if *ended.DurationSeconds < 0 {
		t.Errorf("duration_seconds = %d, want >= 0", *ended.DurationSeconds)
	}
}

func TestEndClampsNegativeDuration(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Create(ctx, "+1234567890", "b1", map[string]any{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Push started_at into the future to simulate clock skew
	session.StartedAt = time.Now().UTC().Add(time.Hour)
	if _, err := store.Update(ctx, session); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	ended, err := svc.End(ctx, session.ID, "qualified", "done")
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if *ended.DurationSeconds != 0 {
		t.Errorf("duration_seconds = %d, want 0 under clock skew", *ended.DurationSeconds)
	}
}

func TestEndEmitsExactlyOneEvent(t *testing.T) {
	svc, _, emitter := newTestService()
	ctx := context.Background()

	session, err := svc.Create(ctx, "+1234567890", "b1", map[string]any{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.End(ctx, session.ID, "qualified", "callback requested"); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	if len(emitter.events) != 1 {
		t.Fatalf("End emitted %d events, want 1", len(emitter.events))
	}
	if emitter.events[0] != EventCallCompleted {
		t.Errorf("event name = %q, want %q", emitter.events[0], EventCallCompleted)
	}

	payload, ok := emitter.payloads[0].(CallCompletedPayload)
	if !ok {
		t.Fatalf("payload has type %T, want CallCompletedPayload", emitter.payloads[0])
	}
	if payload.SessionID != session.ID ||
		payload.BusinessID != "b1" ||
		payload.CallerPhone != "+1234567890" ||
		payload.Outcome != "qualified" ||
		payload.Summary != "callback requested" {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestEndIdempotentOverwrite(t *testing.T) {
	svc, _, emitter := newTestService()
	ctx := context.Background()

	session, err := svc.Create(ctx, "+1234567890", "b1", map[string]any{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.End(ctx, session.ID, "qualified", "first"); err != nil {
		t.Fatalf("first End failed: %v", err)
	}
	again, err := svc.End(ctx, session.ID, "not-qualified", "second")
	if err != nil {
		t.Fatalf("second End failed: %v", err)
	}

	if *again.Outcome != "not-qualified" || *again.Summary != "second" {
		t.Errorf("re-end did not overwrite terminal fields: %+v", again)
	}
	if len(emitter.events) != 2 {
		t.Errorf("two End calls emitted %d events, want 2", len(emitter.events))
	}
}

func TestEndNotFound(t *testing.T) {
	svc, _, emitter := newTestService()

	_, err := svc.End(context.Background(), "nonexistent", "qualified", "done")
	if !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("End returned %v, want ErrSessionNotFound", err)
	}
	if len(emitter.events) != 0 {
		t.Errorf("End of missing session emitted %d events, want 0", len(emitter.events))
	}
}

func TestListDefaultsAndCap(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		if _, err := svc.Create(ctx, "+1234567890", "b1", map[string]any{}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	sessions, err := svc.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != DefaultListLimit {
		t.Errorf("default page size = %d, want %d", len(sessions), DefaultListLimit)
	}

	sessions, err = svc.List(ctx, ListFilter{Limit: 1000})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != MaxListLimit {
		t.Errorf("oversized limit returned %d rows, want cap %d", len(sessions), MaxListLimit)
	}
}

func TestListOrderingAndCursor(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	// Seed the store directly so ids are deterministic
	for _, id := range []string{"s3", "s1", "s4", "s2", "s0"} {
		session := &models.Session{
			ID:          id,
			CallerPhone: "+1234567890",
			BusinessID:  "b1",
			AIConfig:    map[string]any{},
			Status:      models.StatusActive,
			StartedAt:   time.Now().UTC(),
		}
		if _, err := store.Insert(ctx, session); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	sessions, err := svc.List(ctx, ListFilter{Limit: 50})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for i := 1; i < len(sessions); i++ {
		if sessions[i-1].ID >= sessions[i].ID {
			t.Fatalf("results not strictly ascending at %d: %q >= %q", i, sessions[i-1].ID, sessions[i].ID)
		}
	}

	paged, err := svc.List(ctx, ListFilter{Cursor: "s1", Limit: 50})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, s := range paged {
		if s.ID <= "s1" {
			t.Errorf("cursor page contains id %q, want only ids > s1", s.ID)
		}
	}
	if len(paged) != 3 {
		t.Errorf("cursor page has %d rows, want 3", len(paged))
	}
}

func TestLifecycleScenario(t *testing.T) {
	svc, _, emitter := newTestService()
	ctx := context.Background()

	session, err := svc.Create(ctx, "+1234567890", "b1", map[string]any{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if session.Status != models.StatusActive {
		t.Fatalf("status after create = %q, want active", session.Status)
	}

	updated, err := svc.UpdateStatus(ctx, session.ID, models.StatusTransferring)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != models.StatusTransferring {
		t.Fatalf("status after update = %q, want transferring", updated.Status)
	}

	ended, err := svc.End(ctx, session.ID, "qualified", "callback requested")
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if ended.Status != models.StatusCompleted || *ended.Outcome != "qualified" || *ended.DurationSeconds < 0 {
		t.Errorf("unexpected ended session: %+v", ended)
	}

	if len(emitter.events) != 1 || emitter.events[0] != EventCallCompleted {
		t.Errorf("scenario emitted %v, want exactly one call.completed", emitter.events)
	}
}

func TestListFilterCombinations(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		businessID := "b1"
		if i%2 == 1 {
			businessID = "b2"
		}
		session := &models.Session{
			ID:          fmt.Sprintf("s%d", i),
			CallerPhone: "+1234567890",
			BusinessID:  businessID,
			AIConfig:    map[string]any{},
			Status:      models.StatusActive,
			StartedAt:   time.Now().UTC(),
		}
		if _, err := store.Insert(ctx, session); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	sessions, err := svc.List(ctx, ListFilter{BusinessID: "b2", Status: models.StatusActive})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, s := range sessions {
		if s.BusinessID != "b2" || s.Status != models.StatusActive {
			t.Errorf("filtered result violates filter: %+v", s)
		}
	}
	if len(sessions) != 2 {
		t.Errorf("got %d rows, want 2", len(sessions))
	}
}
