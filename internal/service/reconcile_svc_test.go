package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
)

type fakeVideoStore struct {
	byUID     map[string]*model.Video
	statuses  map[string]string
	completed map[string]*time.Time
	durations map[string]float64
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{
		byUID:     make(map[string]*model.Video),
		statuses:  make(map[string]string),
		completed: make(map[string]*time.Time),
		durations: make(map[string]float64),
	}
}

func (f *fakeVideoStore) FindByStreamUID(_ context.Context, uid string) (*model.Video, error) {
	v, ok := f.byUID[uid]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return v, nil
}

func (f *fakeVideoStore) SetStatus(_ context.Context, videoID, status string, completedAt *time.Time) error {
	f.statuses[videoID] = status
	if completedAt != nil {
		f.completed[videoID] = completedAt
	}
	return nil
}

func (f *fakeVideoStore) SetDuration(_ context.Context, videoID string, seconds float64) error {
	f.durations[videoID] = seconds
	return nil
}

func readyEvent(uid string, duration float64) *model.WebhookEvent {
	evt := &model.WebhookEvent{UID: uid, Duration: duration}
	evt.Status.State = model.StreamStateReady
	return evt
}

func TestApplyReadyMarksFinal(t *testing.T) {
	store := newFakeVideoStore()
	store.byUID["uid-1"] = &model.Video{ID: "vid-1", Status: model.VideoStatusDraft}
	svc := NewReconcileService(store, nil, zerolog.Nop())

	if err := svc.Apply(context.Background(), readyEvent("uid-1", 183.5)); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if got := store.statuses["vid-1"]; got != model.VideoStatusFinal {
		t.Errorf("status = %q, want %q", got, model.VideoStatusFinal)
	}
	if store.completed["vid-1"] == nil {
		t.Error("completedAt not recorded")
	}
	if got := store.durations["vid-1"]; got != 183.5 {
		t.Errorf("duration = %v, want 183.5", got)
	}
}

func TestApplyErrorStatesMarkFailed(t *testing.T) {
	for _, state := range []string{model.StreamStateError, model.StreamStateErrored} {
		store := newFakeVideoStore()
		store.byUID["uid-1"] = &model.Video{ID: "vid-1", Status: model.VideoStatusDraft}
		svc := NewReconcileService(store, nil, zerolog.Nop())

		evt := &model.WebhookEvent{UID: "uid-1"}
		evt.Status.State = state

		if err := svc.Apply(context.Background(), evt); err != nil {
			t.Fatalf("Apply(%s) error = %v", state, err)
		}
		if got := store.statuses["vid-1"]; got != model.VideoStatusFailed {
			t.Errorf("state %s: status = %q, want %q", state, got, model.VideoStatusFailed)
		}
		if store.completed["vid-1"] != nil {
			t.Errorf("state %s: completedAt should stay unset on failure", state)
		}
	}
}

func TestApplyIntermediateStateIsDropped(t *testing.T) {
	store := newFakeVideoStore()
	store.byUID["uid-1"] = &model.Video{ID: "vid-1", Status: model.VideoStatusDraft}
	svc := NewReconcileService(store, nil, zerolog.Nop())

	evt := &model.WebhookEvent{UID: "uid-1"}
	evt.Status.State = model.StreamStateEncoding

	if err := svc.Apply(context.Background(), evt); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, written := store.statuses["vid-1"]; written {
		t.Error("intermediate state must not touch the catalog")
	}
}

func TestApplyUnknownUIDIsDropped(t *testing.T) {
	store := newFakeVideoStore()
	svc := NewReconcileService(store, nil, zerolog.Nop())

	if err := svc.Apply(context.Background(), readyEvent("ghost", 10)); err != nil {
		t.Fatalf("Apply() error = %v, want nil for unknown uid", err)
	}
}

func TestApplyEmptyUIDRejected(t *testing.T) {
	svc := NewReconcileService(newFakeVideoStore(), nil, zerolog.Nop())

	if err := svc.Apply(context.Background(), readyEvent("", 10)); err != ErrInvalidInput {
		t.Fatalf("Apply() error = %v, want ErrInvalidInput", err)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	store := newFakeVideoStore()
	store.byUID["uid-1"] = &model.Video{ID: "vid-1", Status: model.VideoStatusDraft}
	svc := NewReconcileService(store, nil, zerolog.Nop())

	evt := readyEvent("uid-1", 42)
	for i := 0; i < 3; i++ {
		if err := svc.Apply(context.Background(), evt); err != nil {
			t.Fatalf("Apply() #%d error = %v", i+1, err)
		}
	}
	if got := store.statuses["vid-1"]; got != model.VideoStatusFinal {
		t.Errorf("status = %q, want %q after repeated events", got, model.VideoStatusFinal)
	}
}
