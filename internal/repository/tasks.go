package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mori5600/yarukoto/internal/models"
	"github.com/mori5600/yarukoto/internal/params"
	"github.com/mori5600/yarukoto/pkg/logger"
)

// ErrNotFound is returned when a task does not exist or belongs to another
// owner. The two cases are indistinguishable on purpose.
var ErrNotFound = errors.New("task not found")

// Page is one page of an owner's task list plus pagination totals.
type Page struct {
	Tasks      []models.Task
	TotalCount int
	NumPages   int
	Number     int
	PerPage    int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.NumPages }

// PrevPage returns the previous page number (valid only when HasPrev).
func (p Page) PrevPage() int { return p.Number - 1 }

// NextPage returns the next page number (valid only when HasNext).
func (p Page) NextPage() int { return p.Number + 1 }

// TaskRepository runs all task reads and writes against the backing store.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, owner_id, description, notes, completed, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.OwnerID, &t.Description, &t.Notes, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// escapeLike escapes LIKE wildcards in a user-supplied search string.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// List returns one page of the owner's tasks after applying the status
// filter, case-insensitive description search and sort order. Page numbers
// past the end clamp to the last page; an empty result still reports one
// page.
func (r *TaskRepository) List(ctx context.Context, ownerID string, page, perPage int, query string, status params.Status, sort params.SortKey) (Page, error) {
	if page < 1 {
		page = params.DefaultPage
	}
	if perPage < 1 {
		perPage = params.TasksPerPage
	}

	where := []string{"owner_id = $1"}
	args := []any{ownerID}

	switch status {
	case params.StatusActive:
		where = append(where, "completed = FALSE")
	case params.StatusCompleted:
		where = append(where, "completed = TRUE")
	}

	if query != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(query))+"%")
		where = append(where, `LOWER(description) LIKE $`+strconv.Itoa(len(args))+` ESCAPE '\'`)
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE `+cond, args...).Scan(&total); err != nil {
		logger.Error(ctx, "Repository count tasks failed", "error", err)
		return Page{}, err
	}

	numPages := (total + perPage - 1) / perPage
	if numPages < 1 {
		numPages = 1
	}
	if page > numPages {
		page = numPages
	}

	var order string
	switch sort {
	case params.SortUpdated:
		order = "updated_at DESC, created_at DESC"
	case params.SortActiveFirst:
		order = "completed ASC, created_at DESC"
	default:
		order = "created_at DESC"
	}

	args = append(args, perPage, (page-1)*perPage)
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + cond +
		` ORDER BY ` + order +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		logger.Error(ctx, "Repository list tasks failed", "error", err)
		return Page{}, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error(ctx, "Repository scan task failed", "error", err)
			return Page{}, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return Page{}, err
	}

	return Page{
		Tasks:      tasks,
		TotalCount: total,
		NumPages:   numPages,
		Number:     page,
		PerPage:    perPage,
	}, nil
}

// GetByID returns the owner's task with the given id, or ErrNotFound.
func (r *TaskRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CountCompletedToday counts tasks completed whose last update falls on the
// server's local calendar date. A derived counter, not a ledger: a task
// completed, reopened and completed again today counts once.
func (r *TaskRepository) CountCompletedToday(ctx context.Context, ownerID string) (int, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE owner_id = $1 AND completed = TRUE AND updated_at >= $2 AND updated_at < $3`,
		ownerID, start, end).Scan(&n)
	return n, err
}

// IsLimitReached reports whether the owner already has maxItems tasks. It
// probes for the existence of the maxItems-th row instead of counting, so
// the common under-limit case stays cheap.
func (r *TaskRepository) IsLimitReached(ctx context.Context, ownerID string, maxItems int) (bool, error) {
	if maxItems <= 0 {
		return true, nil
	}
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM tasks WHERE owner_id = $1 ORDER BY id LIMIT 1 OFFSET $2`,
		ownerID, maxItems-1).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountByOwner returns the owner's exact task count. Used only when the
// limit has already been hit and the count is wanted for logging.
func (r *TaskRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE owner_id = $1`, ownerID).Scan(&n)
	return n, err
}

// Insert persists a new task, assigning id and timestamps.
func (r *TaskRepository) Insert(ctx context.Context, t *models.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.OwnerID, t.Description, t.Notes, t.Completed, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		logger.Error(ctx, "Repository insert task failed", "error", err)
	}
	return err
}

// SetCompleted writes the completion flag and refreshes updated_at.
func (r *TaskRepository) SetCompleted(ctx context.Context, t *models.Task, completed bool) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET completed = $1, updated_at = $2 WHERE id = $3 AND owner_id = $4`,
		completed, now, t.ID, t.OwnerID)
	if err != nil {
		logger.Error(ctx, "Repository set completed failed", "error", err, "id", t.ID)
		return err
	}
	t.Completed = completed
	t.UpdatedAt = now
	return nil
}

// SetContent writes description and notes as one field group and refreshes
// updated_at.
func (r *TaskRepository) SetContent(ctx context.Context, t *models.Task, description, notes string) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET description = $1, notes = $2, updated_at = $3 WHERE id = $4 AND owner_id = $5`,
		description, notes, now, t.ID, t.OwnerID)
	if err != nil {
		logger.Error(ctx, "Repository set content failed", "error", err, "id", t.ID)
		return err
	}
	t.Description = description
	t.Notes = notes
	t.UpdatedAt = now
	return nil
}

// Delete removes one task.
func (r *TaskRepository) Delete(ctx context.Context, t *models.Task) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, t.ID, t.OwnerID)
	if err != nil {
		logger.Error(ctx, "Repository delete task failed", "error", err, "id", t.ID)
	}
	return err
}

// DeleteAll removes every task owned by ownerID and returns the count.
func (r *TaskRepository) DeleteAll(ctx context.Context, ownerID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID)
	if err != nil {
		logger.Error(ctx, "Repository delete all failed", "error", err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// DeleteCompleted removes the owner's completed tasks and returns the count.
func (r *TaskRepository) DeleteCompleted(ctx context.Context, ownerID string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE owner_id = $1 AND completed = TRUE`, ownerID)
	if err != nil {
		logger.Error(ctx, "Repository delete completed failed", "error", err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
