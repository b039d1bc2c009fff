package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"civic-cli/internal/model"
)

func TestGetWithoutSnapshot(t *testing.T) {
	c := Cache{Dir: t.TempDir()}
	_, _, err := c.Get(context.Background(), "kari")
	if !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	c := Cache{Dir: t.TempDir()}
	ctx := context.Background()

	in := []model.Report{
		{ID: 3, Title: "Pothole", Status: model.StatusSubmitted, Category: model.CategoryPothole, CreatedAt: time.Now().UTC().Truncate(time.Second)},
		{ID: 1, Title: "Streetlight", Status: model.StatusResolved, Category: model.CategoryStreetlight},
	}
	if err := c.Put(ctx, "kari", in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	out, at, err := c.Get(ctx, "kari")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(out))
	}
	// Server order preserved, not id order.
	if out[0].ID != 3 || out[1].ID != 1 {
		t.Fatalf("order not preserved: %d, %d", out[0].ID, out[1].ID)
	}
	if out[0].Title != "Pothole" || out[0].Status != model.StatusSubmitted {
		t.Fatalf("payload mangled: %+v", out[0])
	}
	if at.IsZero() || time.Since(at) > time.Minute {
		t.Fatalf("suspicious fetched_at %v", at)
	}
}

func TestPutReplacesSnapshot(t *testing.T) {
	c := Cache{Dir: t.TempDir()}
	ctx := context.Background()

	if err := c.Put(ctx, "kari", []model.Report{{ID: 1}, {ID: 2}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put(ctx, "kari", []model.Report{{ID: 9}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	out, _, err := c.Get(ctx, "kari")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out) != 1 || out[0].ID != 9 {
		t.Fatalf("expected replacement snapshot, got %+v", out)
	}
}

func TestSnapshotsAreScopedByUser(t *testing.T) {
	c := Cache{Dir: t.TempDir()}
	ctx := context.Background()

	if err := c.Put(ctx, "kari", []model.Report{{ID: 1}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put(ctx, "admin", []model.Report{{ID: 2}, {ID: 3}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	kari, _, err := c.Get(ctx, "kari")
	if err != nil {
		t.Fatalf("Get kari: %v", err)
	}
	if len(kari) != 1 || kari[0].ID != 1 {
		t.Fatalf("kari snapshot polluted: %+v", kari)
	}
	admin, _, err := c.Get(ctx, "admin")
	if err != nil {
		t.Fatalf("Get admin: %v", err)
	}
	if len(admin) != 2 {
		t.Fatalf("admin snapshot wrong: %+v", admin)
	}
}

func TestEmptySnapshotIsValid(t *testing.T) {
	c := Cache{Dir: t.TempDir()}
	ctx := context.Background()
	if err := c.Put(ctx, "kari", nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	out, _, err := c.Get(ctx, "kari")
	if err != nil {
		t.Fatalf("an empty snapshot is still a snapshot: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %+v", out)
	}
}
