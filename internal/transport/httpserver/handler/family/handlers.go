package family

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	familydomain "family-hub-go/internal/domain/family"
	commonhandler "family-hub-go/internal/transport/httpserver/handler/common"
	"family-hub-go/pkg/logger"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Families *familydomain.Service
	log      logger.Logger
}

func New(families *familydomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Families: families,
		log:      log,
	}
}

type createFamilyRequest struct {
	Name          string           `json:"name"`
	MonthlyAmount *decimal.Decimal `json:"monthly_amount"`
}

type joinFamilyRequest struct {
	Code string `json:"code"`
}

type familyResponse struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	InviteCode    string      `json:"invite_code"`
	OwnerID       string      `json:"owner_id"`
	MonthlyAmount json.Number `json:"monthly_amount"`
	Role          string      `json:"role,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

type joinFamilyResponse struct {
	Message string         `json:"message"`
	Family  familyResponse `json:"family"`
}

type memberResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return
	}

	var req createFamilyRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}
	monthly := decimal.Zero
	if req.MonthlyAmount != nil {
		monthly = *req.MonthlyAmount
	}

	result, err := h.Families.CreateFamily(r.Context(), userID, familydomain.CreateFamilyInput{
		Name:                req.Name,
		MonthlyContribution: monthly,
	})
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrAlreadyInFamily):
			h.log.BusinessError("family.create: user already in family", err, "user_id", userID)
			commonhandler.WriteError(w, http.StatusBadRequest, "already_in_family", "already in family")
		case errors.Is(err, familydomain.ErrNameRequired), errors.Is(err, familydomain.ErrInvalidAmount):
			commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("family.create: create family failed", err, "user_id", userID)
			commonhandler.WriteInternalError(w)
		}
		return
	}

	h.log.Info("family.create: family created", "user_id", userID, "family_id", result.ID)
	commonhandler.WriteJSON(w, http.StatusCreated, toFamilyResponse(result, familydomain.RoleOwner))
}

func (h *Handlers) JoinFamily(w http.ResponseWriter, r *http.Request) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return
	}

	var req joinFamilyRequest
	if err := commonhandler.DecodeJSON(r, &req); err != nil {
		commonhandler.WriteInvalidJSON(w)
		return
	}

	result, err := h.Families.JoinFamily(r.Context(), userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrCodeRequired):
			commonhandler.WriteError(w, http.StatusBadRequest, "invalid_request", "code is required")
		case errors.Is(err, familydomain.ErrInviteCodeNotFound):
			h.log.BusinessError("family.join: invite code not found", err, "user_id", userID)
			commonhandler.WriteError(w, http.StatusNotFound, "invite_code_not_found", "invite code not found")
		case errors.Is(err, familydomain.ErrAlreadyInFamily):
			h.log.BusinessError("family.join: user already in family", err, "user_id", userID)
			commonhandler.WriteError(w, http.StatusBadRequest, "already_in_family", "already in family")
		default:
			h.log.InternalError("family.join: join family failed", err, "user_id", userID)
			commonhandler.WriteInternalError(w)
		}
		return
	}

	h.log.Info("family.join: user joined", "user_id", userID, "family_id", result.ID)
	commonhandler.WriteJSON(w, http.StatusOK, joinFamilyResponse{
		Message: "joined family",
		Family:  toFamilyResponse(result, familydomain.RoleFor(result, userID)),
	})
}

func (h *Handlers) GetFamilyMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return
	}

	result, role, err := h.Families.GetFamilyByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("family.get_me: family not found", err, "user_id", userID)
			commonhandler.WriteError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("family.get_me: get family failed", err, "user_id", userID)
		commonhandler.WriteInternalError(w)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, toFamilyResponse(result, role))
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := commonhandler.RequireUserID(w, r)
	if !ok {
		return
	}

	members, err := h.Families.ListMembers(r.Context(), userID)
	if err != nil {
		h.log.InternalError("family.list_members: list members failed", err, "user_id", userID)
		commonhandler.WriteInternalError(w)
		return
	}

	response := make([]memberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, memberResponse{
			ID:       member.UserID,
			Email:    member.Email,
			FullName: member.FullName,
			Role:     string(member.Role),
		})
	}
	commonhandler.WriteJSON(w, http.StatusOK, response)
}

func toFamilyResponse(family *familydomain.Family, role familydomain.Role) familyResponse {
	return familyResponse{
		ID:            family.ID,
		Name:          family.Name,
		InviteCode:    family.InviteCode,
		OwnerID:       family.OwnerID,
		MonthlyAmount: commonhandler.Money(family.MonthlyContribution),
		Role:          string(role),
		CreatedAt:     family.CreatedAt,
	}
}
