package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mori5600/yarukoto/internal/database"
	"github.com/mori5600/yarukoto/internal/models"
	"github.com/mori5600/yarukoto/internal/repository"
)

type recordingAuditor struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func (a *recordingAuditor) Publish(_ context.Context, ev models.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Action)
	}
	return out
}

func setupService(t *testing.T, maxItems int) (*TaskService, *repository.TaskRepository, *recordingAuditor) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	repo := repository.NewTaskRepository(db)
	audit := &recordingAuditor{}
	return NewTaskService(repo, maxItems, audit, nil), repo, audit
}

func TestCreate(t *testing.T) {
	svc, repo, audit := setupService(t, 100)
	ctx := context.Background()

	res, err := svc.Create(ctx, "alice", "Buy milk")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Task.ID == "" || res.Task.Completed || res.Task.Description != "Buy milk" {
		t.Fatalf("created task = %+v", res.Task)
	}

	stored, err := repo.GetByID(ctx, res.Task.ID, "alice")
	if err != nil {
		t.Fatalf("get after create: %v", err)
	}
	if stored.Description != "Buy milk" {
		t.Fatalf("stored description = %q", stored.Description)
	}
	if got := audit.actions(); len(got) != 1 || got[0] != "task.created" {
		t.Fatalf("audit actions = %v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := setupService(t, 100)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "alice", ""); err != ErrEmptyDescription {
		t.Fatalf("empty description = %v", err)
	}

	// Rune count, not byte count: 255 multi-byte runes are still legal.
	ok := strings.Repeat("あ", 255)
	if _, err := svc.Create(ctx, "alice", ok); err != nil {
		t.Fatalf("255-rune description rejected: %v", err)
	}
	if _, err := svc.Create(ctx, "alice", ok+"あ"); err != ErrDescriptionTooLong {
		t.Fatalf("256-rune description = %v", err)
	}
}

func TestCreateLimit(t *testing.T) {
	svc, _, _ := setupService(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, "alice", "task"); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	_, err := svc.Create(ctx, "alice", "one too many")
	var limitErr *LimitExceededError
	if !errors.As(err, &limitErr) {
		t.Fatalf("over-limit create = %v, want LimitExceededError", err)
	}
	if limitErr.Max != 3 {
		t.Fatalf("limit error max = %d", limitErr.Max)
	}

	// The cap is per owner.
	if _, err := svc.Create(ctx, "bob", "task"); err != nil {
		t.Fatalf("other owner's create blocked: %v", err)
	}
}

func TestToggleCompletion(t *testing.T) {
	svc, repo, audit := setupService(t, 100)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "toggle me")
	if err != nil {
		t.Fatal(err)
	}
	task := created.Task

	res, err := svc.ToggleCompletion(ctx, task)
	if err != nil {
		t.Fatal(err)
	}
	if res.WasCompleted || !task.Completed {
		t.Fatalf("first toggle: was=%v now=%v", res.WasCompleted, task.Completed)
	}

	res, err = svc.ToggleCompletion(ctx, task)
	if err != nil {
		t.Fatal(err)
	}
	if !res.WasCompleted || task.Completed {
		t.Fatalf("second toggle: was=%v now=%v", res.WasCompleted, task.Completed)
	}

	stored, _ := repo.GetByID(ctx, task.ID, "alice")
	if stored.Completed {
		t.Fatal("double toggle should restore the original state")
	}
	if got := audit.actions(); len(got) != 3 || got[1] != "task.toggled" || got[2] != "task.toggled" {
		t.Fatalf("audit actions = %v", got)
	}
}

func TestUpdateContent(t *testing.T) {
	svc, repo, _ := setupService(t, 100)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "old text")
	if err != nil {
		t.Fatal(err)
	}
	task := created.Task

	res, err := svc.UpdateContent(ctx, task, "new text", "some notes", true)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Changed || task.Description != "new text" || task.Notes != "some notes" {
		t.Fatalf("update result = %+v, task = %+v", res, task)
	}

	stored, _ := repo.GetByID(ctx, task.ID, "alice")
	if stored.Description != "new text" || stored.Notes != "some notes" {
		t.Fatalf("stored after update = %+v", stored)
	}
}

func TestUpdateContentNoChange(t *testing.T) {
	svc, repo, _ := setupService(t, 100)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "same text")
	if err != nil {
		t.Fatal(err)
	}
	task := created.Task
	before, _ := repo.GetByID(ctx, task.ID, "alice")

	res, err := svc.UpdateContent(ctx, task, "same text", "", true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed {
		t.Fatal("identical values reported as a change")
	}

	after, _ := repo.GetByID(ctx, task.ID, "alice")
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatalf("updated_at moved on a no-op edit: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestUpdateContentNotesOmitted(t *testing.T) {
	svc, repo, _ := setupService(t, 100)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "task")
	if err != nil {
		t.Fatal(err)
	}
	task := created.Task
	if _, err := svc.UpdateContent(ctx, task, "task", "keep these", true); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateContent(ctx, task, "renamed", "", false); err != nil {
		t.Fatal(err)
	}
	stored, _ := repo.GetByID(ctx, task.ID, "alice")
	if stored.Notes != "keep these" {
		t.Fatalf("notes were cleared by an edit that omitted them: %q", stored.Notes)
	}
}

func TestUpdateContentValidation(t *testing.T) {
	svc, _, _ := setupService(t, 100)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "task")
	if err != nil {
		t.Fatal(err)
	}
	task := created.Task

	if _, err := svc.UpdateContent(ctx, task, "", "", true); err != ErrEmptyDescription {
		t.Fatalf("empty description = %v", err)
	}
	if _, err := svc.UpdateContent(ctx, task, strings.Repeat("x", 256), "", true); err != ErrDescriptionTooLong {
		t.Fatalf("long description = %v", err)
	}
	if _, err := svc.UpdateContent(ctx, task, "fine", strings.Repeat("n", 1001), true); err != ErrNotesTooLong {
		t.Fatalf("long notes = %v", err)
	}
	// Oversized stored-equivalent notes are fine when the field is omitted.
	if _, err := svc.UpdateContent(ctx, task, "fine", strings.Repeat("n", 1001), false); err != nil {
		t.Fatalf("omitted notes still validated: %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, repo, audit := setupService(t, 100)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "short lived")
	if err != nil {
		t.Fatal(err)
	}

	res, err := svc.Delete(ctx, created.Task)
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 1 || res.Description != "short lived" {
		t.Fatalf("delete result = %+v", res)
	}
	if _, err := repo.GetByID(ctx, created.Task.ID, "alice"); err != repository.ErrNotFound {
		t.Fatalf("task still present after delete: %v", err)
	}
	if got := audit.actions(); got[len(got)-1] != "task.deleted" {
		t.Fatalf("audit actions = %v", got)
	}
}

func TestDeleteBulk(t *testing.T) {
	svc, repo, _ := setupService(t, 100)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		created, err := svc.Create(ctx, "alice", "task")
		if err != nil {
			t.Fatal(err)
		}
		if i < 2 {
			if _, err := svc.ToggleCompletion(ctx, created.Task); err != nil {
				t.Fatal(err)
			}
		}
	}

	res, err := svc.DeleteCompleted(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 2 {
		t.Fatalf("delete-completed removed %d, want 2", res.Count)
	}
	if n, _ := repo.CountByOwner(ctx, "alice"); n != 1 {
		t.Fatalf("%d tasks remain, want 1", n)
	}

	res, err = svc.DeleteAll(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 1 {
		t.Fatalf("delete-all removed %d, want 1", res.Count)
	}
	if n, _ := repo.CountByOwner(ctx, "alice"); n != 0 {
		t.Fatalf("%d tasks remain after delete-all", n)
	}
}
