package finance

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	familydomain "family-hub-go/internal/domain/family"
	financedomain "family-hub-go/internal/domain/finance"
	commonhandler "family-hub-go/internal/transport/httpserver/handler/common"
	"family-hub-go/pkg/logger"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Finance *financedomain.Service
	log     logger.Logger
}

func New(finance *financedomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Finance: finance,
		log:     log,
	}
}

type createGoalRequest struct {
	Name   string          `json:"name"`
	Target decimal.Decimal `json:"target"`
}

type contributeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type savingsStatusResponse struct {
	PaidThisMonth      bool        `json:"paid_this_month"`
	TotalFamilySavings json.Number `json:"total_family_savings"`
	PaymentAmount      json.Number `json:"payment_amount"`
}

type paymentResponse struct {
	ID       string      `json:"id"`
	UserID   string      `json:"user_id"`
	FamilyID string      `json:"family_id"`
	Amount   json.Number `json:"amount"`
	Period   string      `json:"period"`
	PaidAt   time.Time   `json:"paid_at"`
}

type goalResponse struct {
	ID            string      `json:"id"`
	FamilyID      string      `json:"family_id"`
	CreatedByID   string      `json:"created_by_id"`
	Name          string      `json:"name"`
	TargetAmount  json.Number `json:"target_amount"`
	CurrentAmount json.Number `json:"current_amount"`
	IsCompleted   bool        `json:"is_completed"`
	CreatedAt     time.Time   `json:"created_at"`
}

type contributeResponse struct {
	Message     string       `json:"message"`
	IsCompleted bool         `json:"is_completed"`
	Goal        goalResponse `json:"goal"`
}

type contributionResponse struct {
	ID            string      `json:"id"`
	GoalID        string      `json:"goal_id"`
	UserID        string      `json:"user_id"`
	Amount        json.Number `json:"amount"`
	ContributedAt time.Time   `json:"contributed_at"`
}

func (h *Handlers) SavingsStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return
	}

	status, err := h.Finance.GetStatus(r.Context(), userID)
	if err != nil {
		if errors.Is(err, familydomain.ErrNoFamily) {
			writeNoFamily(w)
			return
		}
		h.log.InternalError("finance.status: get status failed", err, "user_id", userID)
		commonhandler.WriteInternalError(w)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, savingsStatusResponse{
		PaidThisMonth:      status.PaidThisMonth,
		TotalFamilySavings: commonhandler.Money(status.TotalFamilySavings),
		PaymentAmount:      commonhandler.Money(status.PaymentAmount),
	})
}

func (h *Handlers) PayMonthly(w http.ResponseWriter, r *http.Request) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return
	}

	payment, err := h.Finance.PayMonthlyContribution(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNoFamily):
			writeNoFamily(w)
		case errors.Is(err, financedomain.ErrAlreadyPaid):
			h.log.BusinessError("finance.pay: already paid this month", err, "user_id", userID)
			commonhandler.WriteError(w, http.StatusBadRequest, "already_paid", "already paid this month")
		default:
			h.log.InternalError("finance.pay: record payment failed", err, "user_id", userID)
			commonhandler.WriteInternalError(w)
		}
		return
	}

	h.log.Info("finance.pay: payment recorded", "user_id", userID, "family_id", payment.FamilyID, "period", payment.Period)
	commonhandler.WriteJSON(w, http.StatusCreated, paymentResponse{
		ID:       payment.ID,
		UserID:   payment.UserID,
		FamilyID: payment.FamilyID,
		Amount:   commonhandler.Money(payment.Amount),
		Period:   payment.Period,
		PaidAt:   payment.PaidAt,
	})
}

func (h *Handlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return
	}

	goals, err := h.Finance.ListGoals(r.Context(), userID)
	if err != nil {
		h.log.InternalError("finance.list_goals: list goals failed", err, "user_id", userID)
		commonhandler.WriteInternalError(w)
		return
	}

	response := make([]goalResponse, 0, len(goals))
	for i := range goals {
		response = append(response, toGoalResponse(&goals[i]))
	}
	commonhandler.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return
	}

	var req createGoalRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}

	goal, err := h.Finance.CreateGoal(r.Context(), userID, financedomain.CreateGoalInput{
		Name:         req.Name,
		TargetAmount: req.Target,
	})
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNoFamily):
			writeNoFamily(w)
		case errors.Is(err, financedomain.ErrGoalNameRequired), errors.Is(err, financedomain.ErrInvalidAmount):
			commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, financedomain.ErrForbidden):
			h.log.BusinessError("finance.create_goal: forbidden", err, "user_id", userID)
			commonhandler.WriteError(w, http.StatusForbidden, "forbidden", "forbidden")
		default:
			h.log.InternalError("finance.create_goal: create goal failed", err, "user_id", userID)
			commonhandler.WriteInternalError(w)
		}
		return
	}

	commonhandler.WriteJSON(w, http.StatusCreated, toGoalResponse(goal))
}

func (h *Handlers) Contribute(w http.ResponseWriter, r *http.Request) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return
	}
	goalID, ok := commonhandler.PathID(r, "goal_id")
	if !ok {
		writeGoalNotFound(w)
		return
	}

	var req contributeRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}

	result, err := h.Finance.Contribute(r.Context(), userID, goalID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, financedomain.ErrInvalidAmount):
			commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, financedomain.ErrGoalNotFound):
			h.log.BusinessError("finance.contribute: goal not found", err, "user_id", userID, "goal_id", goalID)
			writeGoalNotFound(w)
		case errors.Is(err, financedomain.ErrGoalCompleted):
			h.log.BusinessError("finance.contribute: goal already completed", err, "user_id", userID, "goal_id", goalID)
			commonhandler.WriteError(w, http.StatusBadRequest, "goal_completed", "goal already completed")
		default:
			h.log.InternalError("finance.contribute: contribute failed", err, "user_id", userID, "goal_id", goalID)
			commonhandler.WriteInternalError(w)
		}
		return
	}

	message := "contribution recorded"
	if result.IsCompleted() {
		message = "contribution recorded, goal completed"
	}
	commonhandler.WriteJSON(w, http.StatusOK, contributeResponse{
		Message:     message,
		IsCompleted: result.IsCompleted(),
		Goal:        toGoalResponse(&result.Goal),
	})
}

func (h *Handlers) ListContributions(w http.ResponseWriter, r *http.Request) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return
	}
	goalID, ok := commonhandler.PathID(r, "goal_id")
	if !ok {
		writeGoalNotFound(w)
		return
	}

	contributions, err := h.Finance.ListContributions(r.Context(), userID, goalID)
	if err != nil {
		if errors.Is(err, financedomain.ErrGoalNotFound) {
			writeGoalNotFound(w)
			return
		}
		h.log.InternalError("finance.list_contributions: list failed", err, "user_id", userID, "goal_id", goalID)
		commonhandler.WriteInternalError(w)
		return
	}

	response := make([]contributionResponse, 0, len(contributions))
	for _, contribution := range contributions {
		response = append(response, contributionResponse{
			ID:            contribution.ID,
			GoalID:        contribution.GoalID,
			UserID:        contribution.UserID,
			Amount:        commonhandler.Money(contribution.Amount),
			ContributedAt: contribution.ContributedAt,
		})
	}
	commonhandler.WriteJSON(w, http.StatusOK, response)
}

func writeNoFamily(w http.ResponseWriter) {
	commonhandler.WriteError(w, http.StatusBadRequest, "no_family", "user has no family")
}

func writeGoalNotFound(w http.ResponseWriter) {
	commonhandler.WriteError(w, http.StatusNotFound, "goal_not_found", "goal not found")
}

func toGoalResponse(goal *financedomain.Goal) goalResponse {
	return goalResponse{
		ID:            goal.ID,
		FamilyID:      goal.FamilyID,
		CreatedByID:   goal.CreatedByID,
		Name:          goal.Name,
		TargetAmount:  commonhandler.Money(goal.TargetAmount),
		CurrentAmount: commonhandler.Money(goal.CurrentAmount),
		IsCompleted:   goal.IsCompleted,
		CreatedAt:     goal.CreatedAt,
	}
}
