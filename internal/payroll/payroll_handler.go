package payroll

import (
	"encoding/json"
	"net/http"
	"time"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// NewHandlerWithRedis enables idempotency bookkeeping on mutating endpoints.
func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// releaseIdempotencyLock frees the in-flight lock placed by the idempotency
// middleware, while cacheResponse stores the final result under the caller's
// idempotency key for replay.
func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lk, ok := c.Get("idempotency_lock_key"); ok {
		if key, ok := lk.(string); ok && key != "" {
			h.rdb.Del(c.Request.Context(), key)
		}
	}
}

func (h *Handler) cacheResponse(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	if ck, ok := c.Get("idempotency_cache_key"); ok {
		if key, ok := ck.(string); ok && key != "" {
			if payload, err := json.Marshal(resp); err == nil {
				_ = h.rdb.Set(c.Request.Context(), key, payload, 24*time.Hour).Err()
			}
		}
	}
}

func (h *Handler) Calculate(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	var req CalculatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Calculate(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResponse(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GenerateBulk(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	var req GenerateBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.GenerateBulk(c.Request.Context(), req.Month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResponse(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ProcessPayment(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	resp, err := h.service.ProcessPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResponse(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GeneratePayslip(c *gin.Context) {
	resp, err := h.service.GeneratePayslip(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DownloadPayslip(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if resp.PayslipURL == nil || *resp.PayslipURL == "" {
		response.Error(c, http.StatusNotFound, apperror.CodeNotFound, "payslip not generated yet", nil)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, *resp.PayslipURL)
}

func (h *Handler) GetAll(c *gin.Context) {
	var filter GetPayrollsFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid query parameters", err.Error())
		return
	}

	resp, total, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Summary(c *gin.Context) {
	resp, err := h.service.Summary(c.Request.Context(), c.Query("month"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
