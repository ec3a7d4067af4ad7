package lookup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/repository"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/kv"
)

func courseSnapshot(store kv.Store) repository.SnapshotRepository[model.CourseSummary] {
	return repository.NewSnapshotRepo[model.CourseSummary](store, kv.KeyCourses)
}

func TestCache_DefaultsOnly(t *testing.T) {
	c := NewCache(context.Background(), CacheOptions[model.CourseSummary]{
		Kind:     KindCourse,
		Label:    CourseLabel,
		Defaults: []model.CourseSummary{{ID: 1, Code: "COSC2758"}},
	})

	if got := c.Resolve(1); got != "COSC2758" {
		t.Errorf("expected default COSC2758, got %q", got)
	}
	if got := c.Resolve(99); got != "99" {
		t.Errorf("expected raw id, got %q", got)
	}
	if c.Populated() {
		t.Error("remote tier should be empty")
	}
}

func TestCache_PersistedReadAtConstruction(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	snap := courseSnapshot(store)
	_ = snap.Save(ctx, []model.CourseSummary{{ID: 1, Code: "PERSISTED"}})

	c := NewCache(ctx, CacheOptions[model.CourseSummary]{
		Kind:     KindCourse,
		Label:    CourseLabel,
		Snapshot: snap,
		Defaults: []model.CourseSummary{{ID: 1, Code: "DEFAULT"}},
	})

	if got := c.Resolve(1); got != "PERSISTED" {
		t.Errorf("expected persisted tier to win over defaults, got %q", got)
	}
}

func TestCache_RefreshPopulatesAndPersists(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	snap := courseSnapshot(store)

	c := NewCache(ctx, CacheOptions[model.CourseSummary]{
		Kind:  KindCourse,
		Label: CourseLabel,
		Source: SourceFunc[model.CourseSummary](func(context.Context) ([]model.CourseSummary, error) {
			return []model.CourseSummary{{ID: 1, Code: "REMOTE"}}, nil
		}),
		Snapshot: snap,
		Defaults: []model.CourseSummary{{ID: 1, Code: "DEFAULT"}},
	})

	if got := c.Resolve(1); got != "DEFAULT" {
		t.Fatalf("before refresh expected DEFAULT, got %q", got)
	}
	if err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := c.Resolve(1); got != "REMOTE" {
		t.Errorf("after refresh expected REMOTE, got %q", got)
	}

	items, ok, err := snap.Load(ctx)
	if err != nil || !ok || len(items) != 1 || items[0].Code != "REMOTE" {
		t.Errorf("expected refreshed snapshot, got %+v ok=%v err=%v", items, ok, err)
	}
}

func TestCache_RefreshFailureKeepsFallbacks(t *testing.T) {
	c := NewCache(context.Background(), CacheOptions[model.UserSummary]{
		Kind:  KindUser,
		Label: UserLabel,
		Source: SourceFunc[model.UserSummary](func(context.Context) ([]model.UserSummary, error) {
			return nil, errors.New("db down")
		}),
		Defaults: []model.UserSummary{{ID: 1, Name: "Alice"}},
	})

	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if c.Populated() {
		t.Error("remote tier should stay empty after a failed fetch")
	}
	if got := c.Resolve(1); got != "Alice" {
		t.Errorf("expected default Alice, got %q", got)
	}
}

func TestCache_RemoteMissFallsThrough(t *testing.T) {
	c := NewCache(context.Background(), CacheOptions[model.UserSummary]{
		Kind:  KindUser,
		Label: UserLabel,
		Source: SourceFunc[model.UserSummary](func(context.Context) ([]model.UserSummary, error) {
			return []model.UserSummary{}, nil
		}),
		Defaults: []model.UserSummary{{ID: 2, Name: "Ben"}},
	})
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if !c.Populated() {
		t.Error("empty fetch still populates the remote tier")
	}
	if got := c.Resolve(2); got != "Ben" {
		t.Errorf("expected fall-through to defaults, got %q", got)
	}
}

func TestCache_ConcurrentRefreshSharesFetch(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	c := NewCache(context.Background(), CacheOptions[model.UserSummary]{
		Kind:  KindUser,
		Label: UserLabel,
		Source: SourceFunc[model.UserSummary](func(context.Context) ([]model.UserSummary, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return []model.UserSummary{{ID: 1, Name: "Alice"}}, nil
		}),
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Refresh(context.Background())
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected one shared fetch, got %d", n)
	}
}

func TestCache_RefreshAfterWriteDoesNotJoinStaleFetch(t *testing.T) {
	var calls int32
	staleStarted := make(chan struct{})
	releaseStale := make(chan struct{})
	c := NewCache(context.Background(), CacheOptions[model.CourseSummary]{
		Kind:     KindCourse,
		Label:    CourseLabel,
		Snapshot: courseSnapshot(kv.NewMemory()),
		Source: SourceFunc[model.CourseSummary](func(context.Context) ([]model.CourseSummary, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				close(staleStarted)
				<-releaseStale
				return []model.CourseSummary{{ID: 1, Code: "OLD1000"}}, nil
			}
			return []model.CourseSummary{{ID: 1, Code: "NEW2000"}}, nil
		}),
	})

	staleDone := make(chan error, 1)
	go func() { staleDone <- c.Refresh(context.Background()) }()
	<-staleStarted

	if err := c.RefreshAfterWrite(context.Background()); err != nil {
		t.Fatalf("RefreshAfterWrite: %v", err)
	}
	if got := c.Resolve(1); got != "NEW2000" {
		t.Errorf("expected the post-write fetch to be applied, got %q", got)
	}

	close(releaseStale)
	if err := <-staleDone; err != nil {
		t.Fatalf("stale refresh: %v", err)
	}
	if got := c.Resolve(1); got != "NEW2000" {
		t.Errorf("expected the older fetch to be dropped, got %q", got)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("expected two fetches, got %d", n)
	}
}
