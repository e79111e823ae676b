// Package contract holds behavioural suites every repository implementation
// must pass. Store packages call them from their own tests with a factory.
package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/repository"
)

type NotificationFactory func(t *testing.T) (repository.NotificationRepository, func())

type ProjectFactory func(t *testing.T) (repository.ProjectRepository, func())

type TargetFactory func(t *testing.T) (targets repository.PublishTargetRepository, history repository.PublishHistoryRepository, cleanup func())

type TxFactory func(t *testing.T) (tx repository.TxManager, targets repository.PublishTargetRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func RunNotificationRepositoryContract(t *testing.T, makeRepo NotificationFactory) {
	t.Helper()

	seed := func(t *testing.T, repo repository.NotificationRepository, n int, sev model.Severity) {
		t.Helper()
		for i := 0; i < n; i++ {
			_, err := repo.Create(context.Background(), model.Notification{
				Severity: sev,
				Location: fmt.Sprintf("dialogs/main.dialog#%d", i),
				Message:  "message",
			})
			if err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
	}

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Notification{Severity: model.SeverityError, Location: "main.dialog", Message: "boom"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.ID <= 0 || created.CreatedAt.IsZero() {
			t.Fatalf("expected id and timestamp assigned: %+v", created)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Message != "boom" || got.Severity != model.SeverityError {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_pages_in_insertion_order", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo, 25, model.SeverityWarning)
		ctx := context.Background()

		first, err := repo.List(ctx, repository.NotificationFilter{}, repository.Page{Index: 1, Size: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(first.Items) != 10 || first.Total != 25 {
			t.Fatalf("unexpected page 1: len=%d total=%d", len(first.Items), first.Total)
		}
		last, err := repo.List(ctx, repository.NotificationFilter{}, repository.Page{Index: 3, Size: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(last.Items) != 5 || last.Total != 25 {
			t.Fatalf("unexpected page 3: len=%d total=%d", len(last.Items), last.Total)
		}
		if last.Items[0].ID <= first.Items[9].ID {
			t.Fatalf("expected ascending ids across pages")
		}
	})

	t.Run("list_out_of_range_is_empty_with_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo, 5, model.SeverityError)
		for _, idx := range []int{0, -1, 2, 50} {
			res, err := repo.List(context.Background(), repository.NotificationFilter{}, repository.Page{Index: idx, Size: 10})
			if err != nil {
				t.Fatalf("list page %d: %v", idx, err)
			}
			if len(res.Items) != 0 || res.Total != 5 {
				t.Fatalf("page %d: expected empty window with total 5, got len=%d total=%d", idx, len(res.Items), res.Total)
			}
		}
	})

	t.Run("list_filters_by_severity", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo, 3, model.SeverityError)
		seed(t, repo, 4, model.SeverityInformation)
		sev := model.SeverityInformation
		res, err := repo.List(context.Background(), repository.NotificationFilter{Severity: &sev}, repository.Page{Index: 1, Size: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 4 || len(res.Items) != 4 {
			t.Fatalf("expected 4 information notifications, got len=%d total=%d", len(res.Items), res.Total)
		}
		for _, n := range res.Items {
			if n.Severity != model.SeverityInformation {
				t.Fatalf("filter leaked %s", n.Severity)
			}
		}
	})

	t.Run("delete_all", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo, 3, model.SeverityError)
		n, err := repo.DeleteAll(context.Background())
		if err != nil || n != 3 {
			t.Fatalf("expected 3 deleted, got %d err=%v", n, err)
		}
		res, err := repo.List(context.Background(), repository.NotificationFilter{}, repository.Page{Index: 1, Size: 10})
		if err != nil || res.Total != 0 {
			t.Fatalf("expected empty store, got total=%d err=%v", res.Total, err)
		}
	})
}

func RunProjectRepositoryContract(t *testing.T, makeRepo ProjectFactory) {
	t.Helper()

	t.Run("recent_first_with_limit", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		for i, name := range []string{"EchoBot", "TodoBot", "WeatherBot"} {
			_, err := repo.Upsert(ctx, model.BotProject{Name: name, Path: "/bots/" + name, DateModified: base.Add(time.Duration(i) * time.Hour)})
			if err != nil {
				t.Fatalf("upsert: %v", err)
			}
		}
		got, err := repo.ListRecent(ctx, 2)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 || got[0].Name != "WeatherBot" || got[1].Name != "TodoBot" {
			t.Fatalf("unexpected order: %+v", got)
		}
	})

	t.Run("upsert_moves_to_front", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		_, _ = repo.Upsert(ctx, model.BotProject{Name: "A", Path: "/a", DateModified: base})
		_, _ = repo.Upsert(ctx, model.BotProject{Name: "B", Path: "/b", DateModified: base.Add(time.Minute)})
		_, err := repo.Upsert(ctx, model.BotProject{Name: "A", Path: "/a2", DateModified: base.Add(time.Hour)})
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
		got, err := repo.ListRecent(ctx, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 || got[0].Name != "A" || got[0].Path != "/a2" {
			t.Fatalf("expected A refreshed at front: %+v", got)
		}
	})

	t.Run("delete_missing", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		if err := repo.Delete(context.Background(), "nope"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunPublishTargetRepositoryContract(t *testing.T, makeRepo TargetFactory) {
	t.Helper()

	t.Run("create_get_case_insensitive", func(t *testing.T) {
		targets, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := targets.Create(ctx, model.PublishTarget{Name: "Production", Type: "azurePublish", Configuration: "{}"}); err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := targets.GetByName(ctx, "production")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Name != "Production" || got.Type != "azurePublish" {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("duplicate_name_differs_only_in_case", func(t *testing.T) {
		targets, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := targets.Create(ctx, model.PublishTarget{Name: "Dup", Type: "localPublish", Configuration: "{}"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := targets.Create(ctx, model.PublishTarget{Name: "DUP", Type: "localPublish", Configuration: "{}"})
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("list_sorted_by_name", func(t *testing.T) {
		targets, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for _, n := range []string{"staging", "Dev", "prod"} {
			if _, err := targets.Create(ctx, model.PublishTarget{Name: n, Type: "localPublish", Configuration: "{}"}); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		got, err := targets.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 3 || got[0].Name != "Dev" || got[1].Name != "prod" || got[2].Name != "staging" {
			t.Fatalf("unexpected order: %+v", got)
		}
	})

	t.Run("rename_carries_history", func(t *testing.T) {
		targets, history, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := targets.Create(ctx, model.PublishTarget{Name: "old", Type: "localPublish", Configuration: "{}"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := history.Append(ctx, newRecord("old", model.PublishSucceeded)); err != nil {
			t.Fatalf("append: %v", err)
		}
		updated, err := targets.Update(ctx, "OLD", model.PublishTarget{Name: "new", Type: "localPublish", Configuration: `{"a":1}`})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Name != "new" || updated.Configuration != `{"a":1}` {
			t.Fatalf("mismatch: %+v", updated)
		}
		if _, err := targets.GetByName(ctx, "old"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected old name gone, got %v", err)
		}
		res, err := history.ListByTarget(ctx, "new", repository.Page{Index: 1, Size: 10})
		if err != nil || res.Total != 1 {
			t.Fatalf("expected history under new name, total=%d err=%v", res.Total, err)
		}
	})

	t.Run("update_missing", func(t *testing.T) {
		targets, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := targets.Update(context.Background(), "ghost", model.PublishTarget{Name: "ghost", Type: "localPublish", Configuration: "{}"})
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("history_newest_first_and_paged", func(t *testing.T) {
		targets, history, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := targets.Create(ctx, model.PublishTarget{Name: "prod", Type: "localPublish", Configuration: "{}"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			rec := newRecord("prod", model.PublishSucceeded)
			rec.Comment = fmt.Sprintf("release %d", i)
			rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			if _, err := history.Append(ctx, rec); err != nil {
				t.Fatalf("append: %v", err)
			}
		}
		res, err := history.ListByTarget(ctx, "PROD", repository.Page{Index: 1, Size: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 3 || len(res.Items) != 2 || res.Items[0].Comment != "release 2" {
			t.Fatalf("unexpected history page: %+v", res)
		}
	})

	t.Run("history_for_missing_target", func(t *testing.T) {
		_, history, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := history.Append(context.Background(), newRecord("ghost", model.PublishFailed))
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete_removes_history", func(t *testing.T) {
		targets, history, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := targets.Create(ctx, model.PublishTarget{Name: "temp", Type: "localPublish", Configuration: "{}"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := history.Append(ctx, newRecord("temp", model.PublishSucceeded)); err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := targets.Delete(ctx, "Temp"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		res, err := history.ListByTarget(ctx, "temp", repository.Page{Index: 1, Size: 10})
		if err != nil || res.Total != 0 {
			t.Fatalf("expected history gone, total=%d err=%v", res.Total, err)
		}
		if err := targets.Delete(ctx, "temp"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, targets, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := targets.Create(ctx, model.PublishTarget{Name: "TxCommit", Type: "localPublish", Configuration: "{}"})
			return err
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := targets.GetByName(ctx, "TxCommit"); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, targets, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		marker := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := targets.Create(ctx, model.PublishTarget{Name: "TxRollback", Type: "localPublish", Configuration: "{}"}); err != nil {
				return err
			}
			return marker
		})
		if !errors.Is(err, marker) {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := targets.GetByName(ctx, "TxRollback"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}

func newRecord(target string, status model.PublishStatus) model.PublishRecord {
	return model.PublishRecord{
		ID:        uuid.NewString(),
		Target:    target,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
}
