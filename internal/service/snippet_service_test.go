package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/enrichment"
	"github.com/Devesh36/CodeBits/internal/repository"
	"github.com/Devesh36/CodeBits/internal/repository/fake"
	"github.com/Devesh36/CodeBits/internal/share"
)

type stubClock struct{ t time.Time }

func (s stubClock) Now() time.Time { return s.t }

type stubEnricher struct {
	res   enrichment.Result
	err   error
	block bool
	calls int
}

func (e *stubEnricher) Enrich(ctx context.Context, _ enrichment.Request) (enrichment.Result, error) {
	e.calls++
	if e.block {
		<-ctx.Done()
		return enrichment.Result{}, ctx.Err()
	}
	return e.res, e.err
}

var fixed = time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

func newTestService(store *fake.Store, enr enrichment.Enricher, opts ...Option) *Service {
	ids := 0
	opts = append([]Option{WithIDGenerator(func() string { ids++; return fmt.Sprintf("id-%d", ids) })}, opts...)
	return NewServiceWithOptions(store, store, enr, stubClock{t: fixed}, opts...)
}

func validInput() CreateInput {
	return CreateInput{Title: "useDebounce hook", Body: "export const useDebounce = () => {}", Language: "TypeScript", Public: true}
}

func TestCreateSnippet_Enriched(t *testing.T) {
	store := fake.NewStore()
	enr := &stubEnricher{res: enrichment.Result{Tags: []string{"React", " ", "Hooks"}, Summary: " Debounces a value "}}
	s := newTestService(store, enr)

	got, err := s.CreateSnippet(context.Background(), "alice", validInput())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != "id-1" || got.OwnerID != "alice" || !got.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected snippet: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "React" || got.Tags[1] != "Hooks" {
		t.Fatalf("tags not cleaned: %v", got.Tags)
	}
	if got.Summary == nil || *got.Summary != "Debounces a value" {
		t.Fatalf("summary mismatch: %v", got.Summary)
	}
	if got.Stars != 0 {
		t.Fatalf("new snippet must have zero stars")
	}
	if _, err := store.FindByID(context.Background(), "id-1"); err != nil {
		t.Fatalf("snippet not stored: %v", err)
	}
}

func TestCreateSnippet_EnrichmentFailureFallsBack(t *testing.T) {
	for name, enr := range map[string]enrichment.Enricher{
		"error":    &stubEnricher{err: errors.New("quota exceeded")},
		"disabled": enrichment.Disabled{},
		"nil":      nil,
	} {
		t.Run(name, func(t *testing.T) {
			store := fake.NewStore()
			s := newTestService(store, enr)
			got, err := s.CreateSnippet(context.Background(), "alice", validInput())
			if err != nil {
				t.Fatalf("enrichment failure must not block creation: %v", err)
			}
			if got.Tags == nil || len(got.Tags) != 0 || got.Summary != nil {
				t.Fatalf("want empty tags and nil summary, got %v %v", got.Tags, got.Summary)
			}
		})
	}
}

func TestCreateSnippet_EnrichmentTimeout(t *testing.T) {
	store := fake.NewStore()
	s := newTestService(store, &stubEnricher{block: true}, WithEnrichmentTimeout(10*time.Millisecond))
	got, err := s.CreateSnippet(context.Background(), "alice", validInput())
	if err != nil {
		t.Fatalf("timeout must fall back, got %v", err)
	}
	if len(got.Tags) != 0 || got.Summary != nil {
		t.Fatalf("expected fallback metadata")
	}
}

func TestCreateSnippet_CancelledRequestPersistsNothing(t *testing.T) {
	store := fake.NewStore()
	s := newTestService(store, &stubEnricher{block: true}, WithEnrichmentTimeout(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if _, err := s.CreateSnippet(ctx, "alice", validInput()); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	owned, _ := store.ListByOwner(context.Background(), "alice")
	if len(owned) != 0 {
		t.Fatalf("cancelled create must not persist, found %d", len(owned))
	}
}

func TestCreateSnippet_ValidationBeforeEnrichment(t *testing.T) {
	long := make([]byte, domain.MaxTitleLength+1)
	for i := range long {
		long[i] = 'a'
	}
	cases := []struct {
		name  string
		in    CreateInput
		field string
		msg   string
	}{
		{"empty title", CreateInput{Title: "  ", Body: "x", Language: "go"}, "title", "Title is required"},
		{"long title", CreateInput{Title: string(long), Body: "x", Language: "go"}, "title", "Title too long"},
		{"empty body", CreateInput{Title: "t", Body: "", Language: "go"}, "code", "Code is required"},
		{"no language", CreateInput{Title: "t", Body: "x"}, "language", "Language is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enr := &stubEnricher{}
			s := newTestService(fake.NewStore(), enr)
			_, err := s.CreateSnippet(context.Background(), "alice", tc.in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field || ve.Message != tc.msg {
				t.Fatalf("want %s/%s, got %v", tc.field, tc.msg, err)
			}
			if enr.calls != 0 {
				t.Fatalf("enrichment must not run for invalid input")
			}
		})
	}
}

func TestCreateSnippet_RequiresActor(t *testing.T) {
	s := newTestService(fake.NewStore(), nil)
	if _, err := s.CreateSnippet(context.Background(), "", validInput()); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}
}

func TestCreateSnippet_StoreFailureIsPersistenceError(t *testing.T) {
	store := fake.NewStore(fake.WithInsertError(errors.New("disk full")))
	s := newTestService(store, nil)
	_, err := s.CreateSnippet(context.Background(), "alice", validInput())
	var pe *domain.PersistenceError
	if !errors.Is(err, domain.ErrPersistence) || !errors.As(err, &pe) {
		t.Fatalf("want PersistenceError, got %v", err)
	}
}

func TestCreateSnippet_DuplicateIDIsNotReportedAsCreated(t *testing.T) {
	store := fake.NewStore()
	s := newTestService(store, nil, WithIDGenerator(func() string { return "same" }))
	ctx := context.Background()

	if _, err := s.CreateSnippet(ctx, "alice", validInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	in := validInput()
	in.Title = "second"
	_, err := s.CreateSnippet(ctx, "bob", in)
	if !errors.Is(err, domain.ErrPersistence) || !errors.Is(err, repository.ErrDuplicateID) {
		t.Fatalf("want persistence error wrapping duplicate id, got %v", err)
	}
	got, _ := store.FindByID(ctx, "same")
	if got.OwnerID != "alice" {
		t.Fatalf("first snippet replaced: %+v", got)
	}
}

func TestGetSnippet_Visibility(t *testing.T) {
	store := fake.NewStore(fake.WithItems(
		domain.Snippet{ID: "priv", OwnerID: "alice", Title: "t", Body: "b", Language: "go"},
		domain.Snippet{ID: "pub", OwnerID: "alice", Title: "t", Body: "b", Language: "go", Public: true},
	))
	s := newTestService(store, nil)
	ctx := context.Background()

	if _, err := s.GetSnippet(ctx, "alice", "priv"); err != nil {
		t.Fatalf("owner must see private snippet: %v", err)
	}
	for _, actor := range []string{"bob", ""} {
		if _, err := s.GetSnippet(ctx, actor, "priv"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("%q must not see private snippet, got %v", actor, err)
		}
		if _, err := s.GetSnippet(ctx, actor, "pub"); err != nil {
			t.Fatalf("%q must see public snippet: %v", actor, err)
		}
	}
	if _, err := s.GetSnippet(ctx, "alice", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListPublic_NeverReturnsPrivate(t *testing.T) {
	store := fake.NewStore()
	s := newTestService(store, nil)
	ctx := context.Background()
	for i, public := range []bool{true, false, true, false} {
		in := validInput()
		in.Title = fmt.Sprintf("snippet %d", i)
		in.Public = public
		if _, err := s.CreateSnippet(ctx, "alice", in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	items, err := s.ListPublic(ctx, PublicQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 public snippets, got %d", len(items))
	}
	for _, it := range items {
		if !it.Public {
			t.Fatalf("private snippet %s leaked", it.ID)
		}
	}
	owned, _ := s.ListOwned(ctx, "alice")
	if len(owned) != 4 {
		t.Fatalf("owner list must include private snippets, got %d", len(owned))
	}
}

// serverSideOnlyRepo ignores the query so the service-level filter is observable.
type serverSideOnlyRepo struct {
	*fake.Store
}

func (r serverSideOnlyRepo) ListPublic(ctx context.Context, opts repository.ListOptions) ([]domain.Snippet, error) {
	opts.Query = ""
	return r.Store.ListPublic(ctx, opts)
}

func TestSearch_ReappliesFilter(t *testing.T) {
	summary := "A react hook"
	store := fake.NewStore(fake.WithItems(
		domain.Snippet{ID: "a", OwnerID: "u", Title: "Debounce", Body: "b", Language: "ts", Summary: &summary, Public: true, CreatedAt: fixed},
		domain.Snippet{ID: "b", OwnerID: "u", Title: "Quicksort", Body: "b", Language: "go", Public: true, CreatedAt: fixed.Add(time.Second)},
	))
	s := NewServiceWithOptions(serverSideOnlyRepo{store}, store, nil, stubClock{t: fixed})

	got, err := s.Search(context.Background(), "REACT", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("want only a, got %+v", got)
	}
	all, _ := s.Search(context.Background(), "   ", 0)
	if len(all) != 2 || all[0].ID != "b" {
		t.Fatalf("blank query must list all, newest first: %+v", all)
	}
}

func TestMutations_OwnerOnly(t *testing.T) {
	store := fake.NewStore(fake.WithItems(
		domain.Snippet{ID: "pub", OwnerID: "alice", Title: "t", Body: "b", Language: "go", Public: true},
		domain.Snippet{ID: "priv", OwnerID: "alice", Title: "t", Body: "b", Language: "go"},
	))
	s := newTestService(store, nil)
	ctx := context.Background()

	if err := s.DeleteSnippet(ctx, "bob", "pub"); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("want ErrNotAuthorized, got %v", err)
	}
	if _, err := s.SetVisibility(ctx, "bob", "priv", true); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("private snippet of another user must be not found, got %v", err)
	}
	if err := s.DeleteSnippet(ctx, "", "pub"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}

	updated, err := s.SetVisibility(ctx, "alice", "priv", true)
	if err != nil || !updated.Public {
		t.Fatalf("owner visibility change failed: %+v %v", updated, err)
	}
	if err := s.DeleteSnippet(ctx, "alice", "pub"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := s.GetSnippet(ctx, "alice", "pub"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted snippet still readable")
	}
}

func TestToggleStar(t *testing.T) {
	store := fake.NewStore(fake.WithItems(
		domain.Snippet{ID: "s", OwnerID: "alice", Title: "t", Body: "b", Language: "go", Public: true},
		domain.Snippet{ID: "priv", OwnerID: "alice", Title: "t", Body: "b", Language: "go"},
	))
	s := newTestService(store, nil)
	ctx := context.Background()

	res, err := s.ToggleStar(ctx, "bob", "s")
	if err != nil || !res.Starred || res.Count != 1 {
		t.Fatalf("star: %+v %v", res, err)
	}
	res, _ = s.ToggleStar(ctx, "bob", "s")
	if res.Starred || res.Count != 0 {
		t.Fatalf("unstar: %+v", res)
	}
	if _, err := s.ToggleStar(ctx, "", "s"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("anonymous toggle: %v", err)
	}
	if _, err := s.ToggleStar(ctx, "bob", "priv"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("starring a hidden snippet must be not found: %v", err)
	}
	if n, _ := store.CountStars(ctx, "priv"); n != 0 {
		t.Fatalf("ledger touched for hidden snippet")
	}
}

func TestToggleStar_ConcurrentUsers(t *testing.T) {
	store := fake.NewStore(fake.WithItems(domain.Snippet{ID: "s", OwnerID: "alice", Title: "t", Body: "b", Language: "go", Public: true}))
	s := newTestService(store, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.ToggleStar(ctx, fmt.Sprintf("u%d", i), "s")
		}(i)
	}
	wg.Wait()
	got, _ := s.GetSnippet(ctx, "", "s")
	if got.Stars != 10 {
		t.Fatalf("want 10 stars, got %d", got.Stars)
	}
}

func TestStarredAmong(t *testing.T) {
	store := fake.NewStore(fake.WithItems(
		domain.Snippet{ID: "a", OwnerID: "alice", Title: "t", Body: "b", Language: "go", Public: true},
		domain.Snippet{ID: "b", OwnerID: "alice", Title: "t", Body: "b", Language: "go", Public: true},
	))
	s := newTestService(store, nil)
	ctx := context.Background()
	_, _ = s.ToggleStar(ctx, "bob", "a")

	got, err := s.StarredAmong(ctx, "bob", []string{"a", "a", " ", "b"})
	if err != nil || len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected starred set: %v %v", got, err)
	}
	anon, err := s.StarredAmong(ctx, "", []string{"a"})
	if err != nil || anon == nil || len(anon) != 0 {
		t.Fatalf("anonymous must get empty set: %v %v", anon, err)
	}
}

func TestShareLink(t *testing.T) {
	store := fake.NewStore(fake.WithItems(
		domain.Snippet{ID: "a", OwnerID: "alice", Title: "t", Body: "b", Language: "go", Public: true},
	))
	s := newTestService(store, nil, WithPublicBaseURL("https://codebits.dev"))
	got, err := s.ShareLink(context.Background(), "", "a", share.CopyLink)
	if err != nil || got != "https://codebits.dev/snippet/a" {
		t.Fatalf("unexpected link %q %v", got, err)
	}
}

func TestAnalyze(t *testing.T) {
	s := newTestService(fake.NewStore(), &stubEnricher{res: enrichment.Result{Tags: []string{"go"}, Summary: "x"}})
	res, err := s.Analyze(context.Background(), "code", "go")
	if err != nil || len(res.Tags) != 1 {
		t.Fatalf("analyze: %+v %v", res, err)
	}
	s = newTestService(fake.NewStore(), nil)
	res, err = s.Analyze(context.Background(), "code", "go")
	if !errors.Is(err, domain.ErrEnrichmentUnavailable) || res.Tags == nil {
		t.Fatalf("want unavailable with empty tags, got %+v %v", res, err)
	}
}
