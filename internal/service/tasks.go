package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/mori5600/yarukoto/internal/models"
	"github.com/mori5600/yarukoto/internal/params"
	"github.com/mori5600/yarukoto/pkg/logger"
)

// Store is the slice of the repository the mutation service writes through.
type Store interface {
	IsLimitReached(ctx context.Context, ownerID string, maxItems int) (bool, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Insert(ctx context.Context, t *models.Task) error
	SetCompleted(ctx context.Context, t *models.Task, completed bool) error
	SetContent(ctx context.Context, t *models.Task, description, notes string) error
	Delete(ctx context.Context, t *models.Task) error
	DeleteAll(ctx context.Context, ownerID string) (int, error)
	DeleteCompleted(ctx context.Context, ownerID string) (int, error)
}

// Auditor publishes mutation events. Publishing is best-effort and must not
// fail the mutation.
type Auditor interface {
	Publish(ctx context.Context, ev models.AuditEvent)
}

// CountInvalidator drops the cached completed-today counter for an owner.
type CountInvalidator interface {
	InvalidateCompletedToday(ctx context.Context, ownerID string)
}

// TaskService applies validated mutations against the store.
type TaskService struct {
	store    Store
	maxItems int
	audit    Auditor
	counts   CountInvalidator
}

// NewTaskService builds a service with the per-owner task cap injected.
// audit and counts may be nil.
func NewTaskService(store Store, maxItems int, audit Auditor, counts CountInvalidator) *TaskService {
	return &TaskService{store: store, maxItems: maxItems, audit: audit, counts: counts}
}

// MaxItems returns the configured per-owner task cap.
func (s *TaskService) MaxItems() int { return s.maxItems }

// CreateResult reports a successful create.
type CreateResult struct {
	Task *models.Task
}

// ToggleResult reports a completion flip. WasCompleted is the state before.
type ToggleResult struct {
	Task         *models.Task
	WasCompleted bool
}

// UpdateResult reports a content edit. Changed is false when the submitted
// values matched the stored ones and no write happened.
type UpdateResult struct {
	Task    *models.Task
	Changed bool
}

// DeleteResult reports how many tasks were removed. Description carries the
// removed task's text for single deletes, for the audit log.
type DeleteResult struct {
	Count       int
	Description string
}

// Create validates the description, checks the owner's cap and inserts a new
// incomplete task.
func (s *TaskService) Create(ctx context.Context, ownerID, description string) (CreateResult, error) {
	if description == "" {
		return CreateResult{}, ErrEmptyDescription
	}
	if utf8.RuneCountInString(description) > params.DescriptionMaxLength {
		return CreateResult{}, ErrDescriptionTooLong
	}

	reached, err := s.store.IsLimitReached(ctx, ownerID, s.maxItems)
	if err != nil {
		return CreateResult{}, err
	}
	if reached {
		// Exact count only matters for the log line.
		if count, cerr := s.store.CountByOwner(ctx, ownerID); cerr == nil {
			logger.Info(ctx, "Task limit reached", "owner_id", ownerID, "count", count, "max", s.maxItems)
		}
		return CreateResult{}, &LimitExceededError{Max: s.maxItems}
	}

	task := &models.Task{OwnerID: ownerID, Description: description}
	if err := s.store.Insert(ctx, task); err != nil {
		return CreateResult{}, err
	}
	s.publish(ctx, models.AuditEvent{
		Action:      "task.created",
		TaskID:      task.ID,
		OwnerID:     ownerID,
		Description: task.Description,
	})
	return CreateResult{Task: task}, nil
}

// ToggleCompletion flips the task's completed flag. There is no validation
// branch; the only failure mode is the store itself.
func (s *TaskService) ToggleCompletion(ctx context.Context, task *models.Task) (ToggleResult, error) {
	was := task.Completed
	if err := s.store.SetCompleted(ctx, task, !was); err != nil {
		return ToggleResult{}, err
	}
	s.invalidate(ctx, task.OwnerID)
	completed := task.Completed
	s.publish(ctx, models.AuditEvent{
		Action:    "task.toggled",
		TaskID:    task.ID,
		OwnerID:   task.OwnerID,
		Completed: &completed,
	})
	return ToggleResult{Task: task, WasCompleted: was}, nil
}

// UpdateContent validates and applies a description/notes edit. When
// notesProvided is false the stored notes are left alone. Submitting values
// identical to the stored ones is a success with Changed=false and no write,
// so updated_at is untouched.
func (s *TaskService) UpdateContent(ctx context.Context, task *models.Task, newDescription, newNotes string, notesProvided bool) (UpdateResult, error) {
	if newDescription == "" {
		return UpdateResult{Task: task}, ErrEmptyDescription
	}
	if utf8.RuneCountInString(newDescription) > params.DescriptionMaxLength {
		return UpdateResult{Task: task}, ErrDescriptionTooLong
	}
	if notesProvided && utf8.RuneCountInString(newNotes) > params.NotesMaxLength {
		return UpdateResult{Task: task}, ErrNotesTooLong
	}

	notes := task.Notes
	if notesProvided {
		notes = newNotes
	}
	if newDescription == task.Description && notes == task.Notes {
		return UpdateResult{Task: task, Changed: false}, nil
	}

	if err := s.store.SetContent(ctx, task, newDescription, notes); err != nil {
		return UpdateResult{}, err
	}
	s.publish(ctx, models.AuditEvent{
		Action:      "task.edited",
		TaskID:      task.ID,
		OwnerID:     task.OwnerID,
		Description: task.Description,
	})
	return UpdateResult{Task: task, Changed: true}, nil
}

// Delete removes one task and reports its description for logging.
func (s *TaskService) Delete(ctx context.Context, task *models.Task) (DeleteResult, error) {
	description := task.Description
	if err := s.store.Delete(ctx, task); err != nil {
		return DeleteResult{}, err
	}
	s.invalidate(ctx, task.OwnerID)
	s.publish(ctx, models.AuditEvent{
		Action:      "task.deleted",
		TaskID:      task.ID,
		OwnerID:     task.OwnerID,
		Description: description,
		Count:       1,
	})
	return DeleteResult{Count: 1, Description: description}, nil
}

// DeleteAll removes every task the owner has, regardless of completion.
func (s *TaskService) DeleteAll(ctx context.Context, ownerID string) (DeleteResult, error) {
	n, err := s.store.DeleteAll(ctx, ownerID)
	if err != nil {
		return DeleteResult{}, err
	}
	s.invalidate(ctx, ownerID)
	s.publish(ctx, models.AuditEvent{Action: "tasks.cleared", OwnerID: ownerID, Count: n})
	return DeleteResult{Count: n}, nil
}

// DeleteCompleted removes only the owner's completed tasks. The active
// search/filter/sort view state never narrows this.
func (s *TaskService) DeleteCompleted(ctx context.Context, ownerID string) (DeleteResult, error) {
	n, err := s.store.DeleteCompleted(ctx, ownerID)
	if err != nil {
		return DeleteResult{}, err
	}
	s.invalidate(ctx, ownerID)
	s.publish(ctx, models.AuditEvent{Action: "tasks.completed_cleared", OwnerID: ownerID, Count: n})
	return DeleteResult{Count: n}, nil
}

func (s *TaskService) publish(ctx context.Context, ev models.AuditEvent) {
	if s.audit == nil {
		return
	}
	ev.OccurredAt = time.Now()
	s.audit.Publish(ctx, ev)
}

func (s *TaskService) invalidate(ctx context.Context, ownerID string) {
	if s.counts != nil {
		s.counts.InvalidateCompletedToday(ctx, ownerID)
	}
}
