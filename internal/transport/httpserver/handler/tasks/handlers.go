package tasks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"family-hub-go/internal/domain/dashboard"
	familydomain "family-hub-go/internal/domain/family"
	tasksdomain "family-hub-go/internal/domain/tasks"
	commonhandler "family-hub-go/internal/transport/httpserver/handler/common"
	"family-hub-go/pkg/logger"
	"github.com/google/uuid"
)

type Handlers struct {
	Tasks     *tasksdomain.Service
	Dashboard *dashboard.Service
	log       logger.Logger
}

func New(tasks *tasksdomain.Service, alerts *dashboard.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Tasks:     tasks,
		Dashboard: alerts,
		log:       log,
	}
}

type createTaskRequest struct {
	Title        string                           `json:"title"`
	Description  *string                          `json:"description"`
	Deadline     tasksdomain.OptionalNullableTime `json:"deadline"`
	AssignedToID *string                          `json:"assigned_to_id"`
}

type updateTaskRequest struct {
	Title        string                           `json:"title"`
	Deadline     tasksdomain.OptionalNullableTime `json:"deadline"`
	AssignedToID *string                          `json:"assigned_to_id"`
}

type rateTaskRequest struct {
	Rating *int `json:"rating"`
}

type commentRequest struct {
	Content string `json:"content"`
}

type taskResponse struct {
	ID           string     `json:"id"`
	FamilyID     string     `json:"family_id"`
	CreatedByID  string     `json:"created_by_id"`
	AssignedToID *string    `json:"assigned_to_id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Status       string     `json:"status"`
	Rating       *int       `json:"rating"`
	Deadline     *time.Time `json:"deadline"`
	CreatedAt    time.Time  `json:"created_at"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type noFamilyDashboardResponse struct {
	HasFamily bool `json:"has_family"`
}

type dashboardResponse struct {
	HasFamily           bool           `json:"has_family"`
	PaidThisMonth       bool           `json:"paid_this_month"`
	MonthlyContribution json.Number    `json:"monthly_contribution"`
	UpcomingTasksCount  int            `json:"upcoming_tasks_count"`
	UpcomingTasks       []taskResponse `json:"upcoming_tasks"`
	Reminder            string         `json:"reminder"`
}

func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return
	}

	tasks, err := h.Tasks.ListTasks(r.Context(), userID)
	if err != nil {
		h.log.InternalError("tasks.list: list tasks failed", err, "user_id", userID)
		commonhandler.WriteInternalError(w)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, toTaskResponses(tasks))
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	assignee, ok := canonicalAssignee(req.AssignedToID)
	if !ok {
		commonhandler.WriteError(w, http.StatusBadRequest, "assignee_not_member", tasksdomain.ErrAssigneeNotMember.Error())
		return
	}

	task, err := h.Tasks.CreateTask(r.Context(), userID, tasksdomain.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Deadline:     req.Deadline.Value,
		AssignedToID: assignee,
	})
	if err != nil {
		h.writeTaskError(w, "tasks.create", err, userID, "")
		return
	}

	commonhandler.WriteJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *Handlers) DashboardAlerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return
	}

	alerts, err := h.Dashboard.Alerts(r.Context(), userID)
	if err != nil {
		h.log.InternalError("tasks.dashboard: build alerts failed", err, "user_id", userID)
		commonhandler.WriteInternalError(w)
		return
	}

	if !alerts.HasFamily {
		commonhandler.WriteJSON(w, http.StatusOK, noFamilyDashboardResponse{HasFamily: false})
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, dashboardResponse{
		HasFamily:           true,
		PaidThisMonth:       alerts.PaidThisMonth,
		MonthlyContribution: commonhandler.Money(alerts.MonthlyContribution),
		UpcomingTasksCount:  len(alerts.UpcomingTasks),
		UpcomingTasks:       toTaskResponses(alerts.UpcomingTasks),
		Reminder:            alerts.Reminder,
	})
}

func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.taskRequest(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	assignee, ok := canonicalAssignee(req.AssignedToID)
	if !ok {
		commonhandler.WriteError(w, http.StatusBadRequest, "assignee_not_member", tasksdomain.ErrAssigneeNotMember.Error())
		return
	}

	task, err := h.Tasks.UpdateTask(r.Context(), userID, taskID, tasksdomain.UpdateTaskInput{
		Title:        req.Title,
		Deadline:     req.Deadline,
		AssignedToID: assignee,
	})
	if err != nil {
		h.writeTaskError(w, "tasks.update", err, userID, taskID)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.taskRequest(w, r)
	if !ok {
		return
	}

	if err := h.Tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		h.writeTaskError(w, "tasks.delete", err, userID, taskID)
		return
	}

	h.log.Info("tasks.delete: task deleted", "user_id", userID, "task_id", taskID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CompleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.taskRequest(w, r)
	if !ok {
		return
	}

	task, err := h.Tasks.CompleteTask(r.Context(), userID, taskID)
	if err != nil {
		h.writeTaskError(w, "tasks.complete", err, userID, taskID)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handlers) RateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.taskRequest(w, r)
	if !ok {
		return
	}

	var req rateTaskRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	if req.Rating == nil {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", "rating is required")
		return
	}

	task, err := h.Tasks.RateTask(r.Context(), userID, taskID, *req.Rating)
	if err != nil {
		h.writeTaskError(w, "tasks.rate", err, userID, taskID)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.taskRequest(w, r)
	if !ok {
		return
	}

	comments, err := h.Tasks.ListComments(r.Context(), userID, taskID)
	if err != nil {
		h.writeTaskError(w, "tasks.list_comments", err, userID, taskID)
		return
	}

	response := make([]commentResponse, 0, len(comments))
	for i := range comments {
		response = append(response, toCommentResponse(&comments[i]))
	}
	commonhandler.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.taskRequest(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}

	comment, err := h.Tasks.AddComment(r.Context(), userID, taskID, req.Content)
	if err != nil {
		h.writeTaskError(w, "tasks.add_comment", err, userID, taskID)
		return
	}

	commonhandler.WriteJSON(w, http.StatusCreated, toCommentResponse(comment))
}

func (h *Handlers) taskRequest(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return "", "", false
	}
	taskID, ok := commonhandler.PathID(r, "task_id")
	if !ok {
		commonhandler.WriteError(w, http.StatusNotFound, "task_not_found", "task not found")
		return "", "", false
	}
	return userID, taskID, true
}

func (h *Handlers) writeTaskError(w http.ResponseWriter, op string, err error, userID, taskID string) {
	switch {
	case errors.Is(err, familydomain.ErrNoFamily):
		commonhandler.WriteError(w, http.StatusBadRequest, "no_family", "user has no family")
	case errors.Is(err, tasksdomain.ErrTaskNotFound):
		h.log.BusinessError(op+": task not found", err, "user_id", userID, "task_id", taskID)
		commonhandler.WriteError(w, http.StatusNotFound, "task_not_found", "task not found")
	case errors.Is(err, tasksdomain.ErrForbidden):
		h.log.BusinessError(op+": forbidden", err, "user_id", userID, "task_id", taskID)
		commonhandler.WriteError(w, http.StatusForbidden, "forbidden", "only the family owner can do this")
	case errors.Is(err, tasksdomain.ErrSelfRating):
		h.log.BusinessError(op+": self rating", err, "user_id", userID, "task_id", taskID)
		commonhandler.WriteError(w, http.StatusBadRequest, "self_rating_forbidden", err.Error())
	case errors.Is(err, tasksdomain.ErrSelfComment):
		h.log.BusinessError(op+": self comment", err, "user_id", userID, "task_id", taskID)
		commonhandler.WriteError(w, http.StatusBadRequest, "self_comment_forbidden", err.Error())
	case errors.Is(err, tasksdomain.ErrInvalidRating):
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_rating", err.Error())
	case errors.Is(err, tasksdomain.ErrAssigneeNotMember):
		commonhandler.WriteError(w, http.StatusBadRequest, "assignee_not_member", err.Error())
	case errors.Is(err, tasksdomain.ErrTitleRequired), errors.Is(err, tasksdomain.ErrContentRequired):
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(op+": failed", err, "user_id", userID, "task_id", taskID)
		commonhandler.WriteInternalError(w)
	}
}

// canonicalAssignee rewrites a user id to the hyphenated lowercase form
// stored in the users table. Nil and blank ids pass through unchanged.
func canonicalAssignee(id *string) (*string, bool) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return id, true
	}
	parsed, err := uuid.Parse(strings.TrimSpace(*id))
	if err != nil {
		return nil, false
	}
	canonical := parsed.String()
	return &canonical, true
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, tasksdomain.ErrInvalidDeadline) {
		commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid deadline")
		return
	}
	commonhandler.WriteInvalidJSON(w)
}

func toTaskResponses(tasks []tasksdomain.Task) []taskResponse {
	response := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, toTaskResponse(&tasks[i]))
	}
	return response
}

func toTaskResponse(task *tasksdomain.Task) taskResponse {
	return taskResponse{
		ID:           task.ID,
		FamilyID:     task.FamilyID,
		CreatedByID:  task.CreatedByID,
		AssignedToID: task.AssignedToID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       string(task.Status),
		Rating:       task.Rating,
		Deadline:     task.Deadline,
		CreatedAt:    task.CreatedAt,
	}
}

func toCommentResponse(comment *tasksdomain.Comment) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}
