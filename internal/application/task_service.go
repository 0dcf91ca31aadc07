package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/dayline-app/dayline/internal/domain/entity"
	repo "github.com/dayline-app/dayline/internal/domain/repository"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidPriority = errors.New("invalid priority")
)

// TaskService owns all task operations. Absent and not-owned tasks are folded
// into ErrTaskNotFound so a caller can never probe another user's records.
// The Elasticsearch client is optional; when nil, indexing and search degrade
// to no-ops.
type TaskService struct {
	Repo         repo.TaskRepository
	ES           *elasticsearch.Client
	ESTasksIndex string
	Logger       *logrus.Logger
}

func NewTaskService(r repo.TaskRepository, es *elasticsearch.Client, esTasksIndex string, logger *logrus.Logger) *TaskService {
	return &TaskService{Repo: r, ES: es, ESTasksIndex: esTasksIndex, Logger: logger}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	Completed   bool
}

// Create stores a new task for ownerID. Priority defaults to Medium,
// completed to false unless supplied.
func (s *TaskService) Create(ctx context.Context, ownerID string, in CreateTaskInput) (*entity.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !entity.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	t := &entity.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: in.Description,
		Priority:    priority,
		DueDate:     in.DueDate,
		Completed:   in.Completed,
	}
	if err := s.Repo.Create(t); err != nil {
		return nil, err
	}

	s.indexTask(ctx, t)
	return t, nil
}

// ListByOwner returns every task owned by ownerID; empty slice when none.
func (s *TaskService) ListByOwner(ctx context.Context, ownerID string) ([]entity.Task, error) {
	return s.Repo.ListByOwner(ownerID)
}

// UpdateTaskInput uses pointers so an absent field is distinguishable from a
// zero value; only supplied fields change.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *time.Time
	ClearDue    bool
	Completed   *bool
}

func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, in UpdateTaskInput) (*entity.Task, error) {
	t, err := s.Repo.GetByID(taskID, ownerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		if !entity.ValidPriority(*in.Priority) {
			return nil, ErrInvalidPriority
		}
		t.Priority = *in.Priority
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	} else if in.ClearDue {
		t.DueDate = nil
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}

	if err := s.Repo.Update(t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	s.indexTask(ctx, t)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if err := s.Repo.Delete(taskID, ownerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	s.removeTaskIndex(ctx, taskID)
	return nil
}

// Search runs a full-text query over the caller's own tasks. Returns an empty
// result when Elasticsearch is not configured.
func (s *TaskService) Search(ctx context.Context, ownerID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	b, _ := json.Marshal(searchQuery(ownerID, q, size))

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESTasksIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// searchQuery builds the ES request body. The owner filter must hit the
// keyword subfield: the dynamically mapped owner_id is analyzed, and a term
// query against analyzed text never matches a full ID.
func searchQuery(ownerID, q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{
						"multi_match": map[string]any{
							"query":  q,
							"fields": []string{"title^2", "description"},
						},
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"owner_id.keyword": ownerID}},
				},
			},
		},
		"size": size,
	}
}

// indexTask mirrors the task into Elasticsearch, best effort.
func (s *TaskService) indexTask(ctx context.Context, t *entity.Task) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          t.ID,
		"owner_id":    t.OwnerID,
		"title":       t.Title,
		"description": t.Description,
		"priority":    t.Priority,
		"completed":   t.Completed,
		"created_at":  t.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  t.UpdatedAt.Format(time.RFC3339Nano),
	}
	if t.DueDate != nil {
		doc["due_date"] = t.DueDate.Format(time.RFC3339Nano)
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESTasksIndex, DocumentID: t.ID, Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", t.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("task_id", t.ID).Warn("es index response error")
	}
}

func (s *TaskService) removeTaskIndex(ctx context.Context, taskID string) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESTasksIndex, DocumentID: taskID}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", taskID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}
