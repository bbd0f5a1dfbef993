package fake

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/repository"
)

func snippet(id, owner string, public bool, created time.Time, tags ...string) domain.Snippet {
	return domain.Snippet{ID: id, OwnerID: owner, Title: "t-" + id, Body: "code", Language: "go", Tags: tags, Public: public, CreatedAt: created}
}

func TestStore_ListPublicFiltersVisibilityAndQuery(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	r := NewStore()
	_ = r.Insert(ctx, snippet("1", "alice", true, now, "go"))
	_ = r.Insert(ctx, snippet("2", "alice", true, now.Add(time.Second), "go", "web"))
	_ = r.Insert(ctx, snippet("3", "alice", false, now, "go"))

	got, err := r.ListPublic(ctx, repository.ListOptions{Order: domain.OrderRecent})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 public items, got %d", len(got))
	}
	if got[0].ID != "2" {
		t.Fatalf("want newest first")
	}

	web, _ := r.ListPublic(ctx, repository.ListOptions{Query: "WEB"})
	if len(web) != 1 || web[0].ID != "2" {
		t.Fatalf("query filter wrong: %+v", web)
	}
}

func TestStore_InsertValidatesBeforeStoring(t *testing.T) {
	r := NewStore()
	err := r.Insert(context.Background(), domain.Snippet{ID: "x", Body: "b", Language: "go"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if _, err := r.FindByID(context.Background(), "x"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("invalid snippet must not be stored")
	}
}

func TestStore_ToggleKeepsCountInSync(t *testing.T) {
	ctx := context.Background()
	r := NewStore(WithItems(snippet("s", "alice", true, time.Now())))

	res, err := r.Toggle(ctx, "s", "bob")
	if err != nil || !res.Starred || res.Count != 1 {
		t.Fatalf("first toggle: %+v %v", res, err)
	}
	res, _ = r.Toggle(ctx, "s", "bob")
	if res.Starred || res.Count != 0 {
		t.Fatalf("second toggle: %+v", res)
	}
	if _, err := r.Toggle(ctx, "missing", "bob"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestStore_ConcurrentTogglesConverge(t *testing.T) {
	ctx := context.Background()
	r := NewStore(WithItems(snippet("s", "alice", true, time.Now())))
	users := []string{"u1", "u2", "u3", "u4"}

	var wg sync.WaitGroup
	for _, u := range users {
		for i := 0; i < 3; i++ { // odd number per user: every user ends starred
			wg.Add(1)
			go func(u string) {
				defer wg.Done()
				_, _ = r.Toggle(ctx, "s", u)
			}(u)
		}
	}
	wg.Wait()

	s, _ := r.FindByID(ctx, "s")
	n, _ := r.CountStars(ctx, "s")
	if s.Stars != len(users) || n != len(users) {
		t.Fatalf("want %d stars, got stored=%d ledger=%d", len(users), s.Stars, n)
	}
}

func TestStore_DeleteCascadesStars(t *testing.T) {
	ctx := context.Background()
	r := NewStore(WithItems(snippet("s", "alice", true, time.Now())))
	_, _ = r.Toggle(ctx, "s", "bob")
	if err := r.Delete(ctx, "s"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ids, _ := r.StarredAmong(ctx, "bob", []string{"s"})
	if len(ids) != 0 {
		t.Fatalf("stars survived delete: %v", ids)
	}
	if err := r.Delete(ctx, "s"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestStore_ProfilesDefaultToFreeTier(t *testing.T) {
	ctx := context.Background()
	r := NewStore()
	if err := r.UpsertProfile(ctx, domain.Profile{UserID: "u", DisplayName: "Ada"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	p, err := r.FindProfile(ctx, "u")
	if err != nil || p.Tier != domain.TierFree || p.DisplayName != "Ada" {
		t.Fatalf("unexpected profile %+v %v", p, err)
	}
}

func TestStore_InsertRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	r := NewStore()
	if err := r.Insert(ctx, snippet("1", "alice", true, time.Now())); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	dup := snippet("1", "bob", false, time.Now())
	if err := r.Insert(ctx, dup); !errors.Is(err, repository.ErrDuplicateID) {
		t.Fatalf("want duplicate id error, got %v", err)
	}
	got, _ := r.FindByID(ctx, "1")
	if got.OwnerID != "alice" {
		t.Fatalf("stored snippet was overwritten: %+v", got)
	}
}
