package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/Fares-ag/blox-vercel-sub002/internal/domain"
	"github.com/Fares-ag/blox-vercel-sub002/internal/schedule"
	"github.com/Fares-ag/blox-vercel-sub002/internal/service"
	customError "github.com/Fares-ag/blox-vercel-sub002/pkg/errors"
	"github.com/Fares-ag/blox-vercel-sub002/pkg/response"
	"github.com/Fares-ag/blox-vercel-sub002/pkg/utils"
)

type ScheduleHandler struct {
	service   *service.ScheduleService
	validator *validator.Validate
}

func NewScheduleHandler(service *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateFinancing handles POST /financings
func (h *ScheduleHandler) CreateFinancing(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateFinancingRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid financing request", err)
		return
	}

	result, err := h.service.CreateFinancing(r.Context(), &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, result)
}

// GetSchedule handles GET /financings/{financingId}/schedule
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	financingID := mux.Vars(r)["financingId"]

	entries, err := h.service.GetSchedule(r.Context(), financingID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, &domain.ScheduleResponse{
		FinancingID: financingID,
		Schedule:    entries,
	})
}

// RecordPayment handles POST /financings/{financingId}/payment
func (h *ScheduleHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	financingID := mux.Vars(r)["financingId"]

	var request domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid payment request", err)
		return
	}

	if err := h.service.RecordPayment(r.Context(), financingID, request.DueDate, request.PaidDate); err != nil {
		writeBusinessError(w, err)
		return
	}

	entries, err := h.service.GetSchedule(r.Context(), financingID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, &domain.ScheduleResponse{
		FinancingID: financingID,
		Schedule:    entries,
	})
}

// DeferPayment handles POST /financings/{financingId}/deferral
func (h *ScheduleHandler) DeferPayment(w http.ResponseWriter, r *http.Request) {
	financingID := mux.Vars(r)["financingId"]

	var request domain.DeferPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid deferral request", err)
		return
	}

	result, err := h.service.DeferPayment(r.Context(), financingID, &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	// Quota exhaustion comes back as updated=false, a normal outcome the
	// caller surfaces as "no deferrals remaining this year".
	response.Success(w, result)
}

// SettlementQuote handles GET /financings/{financingId}/settlement-quote
func (h *ScheduleHandler) SettlementQuote(w http.ResponseWriter, r *http.Request) {
	financingID := mux.Vars(r)["financingId"]

	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "as_of must be an ISO date (YYYY-MM-DD)", err)
			return
		}
		asOf = parsed
	}

	quote, err := h.service.SettlementQuote(r.Context(), financingID, asOf)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, quote)
}

// ValidateScheduleRequest is the body for the stateless validation endpoint.
type ValidateScheduleRequest struct {
	Entries            []*domain.PaymentEntry `json:"entries" validate:"required"`
	Mode               string                 `json:"mode"`
	CarValue           string                 `json:"car_value"`
	DownPayment        string                 `json:"down_payment"`
	ExpectedTermMonths int                    `json:"expected_term_months"`
}

// ValidateSchedule handles POST /schedules/validate. It never blocks
// anything itself; it only hands the caller the report.
func (h *ScheduleHandler) ValidateSchedule(w http.ResponseWriter, r *http.Request) {
	var request ValidateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid validation request", err)
		return
	}

	vctx := schedule.Context{
		Mode:               request.Mode,
		ExpectedTermMonths: request.ExpectedTermMonths,
		Now:                time.Now(),
	}
	var err error
	if request.CarValue != "" {
		if vctx.CarValue, err = utils.DecimalFromString(request.CarValue); err != nil {
			response.BadRequest(w, "car_value must be a decimal", err)
			return
		}
	}
	if request.DownPayment != "" {
		if vctx.DownPayment, err = utils.DecimalFromString(request.DownPayment); err != nil {
			response.BadRequest(w, "down_payment must be a decimal", err)
			return
		}
	}

	response.Success(w, schedule.Validate(request.Entries, vctx))
}

// ApplyManualEdit handles PUT /financings/{financingId}/schedule
func (h *ScheduleHandler) ApplyManualEdit(w http.ResponseWriter, r *http.Request) {
	financingID := mux.Vars(r)["financingId"]

	var entries []*domain.PaymentEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	report, err := h.service.ApplyManualEdit(r.Context(), financingID, entries)
	if err != nil {
		if report != nil {
			// Hard validation errors: the edit was rejected, return the
			// report so the caller can show what failed.
			response.UnprocessableEntity(w, "Schedule failed validation", err)
			return
		}
		writeBusinessError(w, err)
		return
	}

	response.Success(w, report)
}

func writeBusinessError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "Unexpected error", err)
		return
	}

	switch businessErr.Code {
	case customError.ErrCodeFinancingNotFound, customError.ErrCodeEntryNotFound:
		response.NotFound(w, businessErr.Message)
	case customError.ErrCodeFinancingAlreadyExist, customError.ErrCodeEntryAlreadyPaid:
		response.Conflict(w, businessErr.Message, businessErr)
	case customError.ErrCodeInvalidFinancingInput, customError.ErrCodeEmptySchedule:
		response.BadRequest(w, businessErr.Message, businessErr)
	case customError.ErrCodeScheduleInvalid:
		response.UnprocessableEntity(w, businessErr.Message, businessErr)
	default:
		response.InternalServerError(w, businessErr.Message, businessErr)
	}
}
