package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"legacybook/internal/repository"
	"legacybook/internal/services"
	"legacybook/internal/transport/httpdto"
	legacy_errors "legacybook/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	signedURLDefaultTTL = 600
	signedURLMinTTL     = 60
	signedURLMaxTTL     = 3600
)

type AdminHandler struct {
	review *services.ReviewService
	export *services.ExportService
	admins *services.AdminService
}

func NewAdminHandler(review *services.ReviewService, export *services.ExportService, admins *services.AdminService) *AdminHandler {
	return &AdminHandler{review: review, export: export, admins: admins}
}

// ListSubmissions returns a filtered, sorted page of submissions.
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	filter := repository.Filter{
		Institution:  c.Query("institution"),
		ReviewStatus: c.Query("review_status"),
		TopTag:       c.Query("top_tag"),
	}
	if v := c.Query("batch_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("batch_year must be an integer", "INVALID_QUERY"))
			return
		}
		filter.BatchYear = year
	}
	if v := c.Query("rejected"); v != "" {
		rejected, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("rejected must be a boolean", "INVALID_QUERY"))
			return
		}
		filter.Rejected = &rejected
	}

	var sort *repository.Sort
	if field := c.Query("sort_by"); field != "" {
		sort = &repository.Sort{Field: field, Ascending: c.Query("sort_dir") == "asc"}
	}

	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 50)

	records, total, err := h.review.List(c.Request.Context(), filter, sort, page, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
		"submissions": records,
		"total":       total,
		"page":        page,
		"limit":       limit,
	}))
}

func (h *AdminHandler) GetSubmission(c *gin.Context) {
	record, err := h.review.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(record))
}

func (h *AdminHandler) UpdateReview(c *gin.Context) {
	var req httpdto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request body", "INVALID_BODY"))
		return
	}
	if err := h.review.SetStatus(c.Request.Context(), c.Param("id"), req.ReviewStatus, req.AdminNotes); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"updated": true}))
}

func (h *AdminHandler) DeleteSubmission(c *gin.Context) {
	if err := h.review.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"deleted": true}))
}

// SignedURLs issues time-limited download links for stored media paths.
func (h *AdminHandler) SignedURLs(c *gin.Context) {
	var req httpdto.SignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request body", "INVALID_BODY"))
		return
	}
	if len(req.Paths) == 0 {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("paths is required", "INVALID_BODY"))
		return
	}
	ttl := req.ExpiresIn
	if ttl == 0 {
		ttl = signedURLDefaultTTL
	}
	if ttl < signedURLMinTTL || ttl > signedURLMaxTTL {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("expiresIn must be between 60 and 3600 seconds", "INVALID_BODY"))
		return
	}

	urls, failures := h.review.SignedURLs(c.Request.Context(), req.Paths, time.Duration(ttl)*time.Second)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SignedURLResponse{
		SignedURLs: urls,
		Errors:     failures,
	}))
}

// ExportBulk streams a ZIP archive of every matching submission.
func (h *AdminHandler) ExportBulk(c *gin.Context) {
	var req httpdto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request body", "INVALID_BODY"))
		return
	}
	filter := repository.Filter{
		IDs:          req.SubmissionIDs,
		Institution:  req.Filters.Institution,
		BatchYear:    req.Filters.BatchYear,
		ReviewStatus: req.Filters.ReviewStatus,
		TopTag:       req.Filters.TopTag,
	}
	name, archive, err := h.export.ExportBulk(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeZip(c, name, archive)
}

// ExportSingle streams one submission's archive with media embedded.
func (h *AdminHandler) ExportSingle(c *gin.Context) {
	name, archive, err := h.export.ExportSingle(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	writeZip(c, name, archive)
}

func (h *AdminHandler) ListAdmins(c *gin.Context) {
	profiles, err := h.admins.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(profiles))
}

func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	actor, ok := services.AdminFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("admin context missing", "UNAUTHORIZED"))
		return
	}
	var req httpdto.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request body", "INVALID_BODY"))
		return
	}
	var id *uuid.UUID
	if req.ID != "" {
		parsed, err := uuid.Parse(req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("id must be a uuid", "INVALID_BODY"))
			return
		}
		id = &parsed
	}
	profile, err := h.admins.Create(c.Request.Context(), actor, id, req.Email, req.Role)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(profile))
}

func (h *AdminHandler) UpdateAdminRole(c *gin.Context) {
	actor, ok := services.AdminFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("admin context missing", "UNAUTHORIZED"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("id must be a uuid", "INVALID_PARAM"))
		return
	}
	var req httpdto.UpdateAdminRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request body", "INVALID_BODY"))
		return
	}
	if err := h.admins.UpdateRole(c.Request.Context(), actor, id, req.Role); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"updated": true}))
}

func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	actor, ok := services.AdminFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("admin context missing", "UNAUTHORIZED"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("id must be a uuid", "INVALID_PARAM"))
		return
	}
	if err := h.admins.Delete(c.Request.Context(), actor, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"deleted": true}))
}

func (h *AdminHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, legacy_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "INVALID_INPUT"))
	case errors.Is(err, legacy_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse(err.Error(), "NOT_FOUND"))
	case errors.Is(err, legacy_errors.ErrConflict), errors.Is(err, legacy_errors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse(err.Error(), "CONFLICT"))
	case errors.Is(err, legacy_errors.ErrForbidden):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse(err.Error(), "FORBIDDEN"))
	case errors.Is(err, legacy_errors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse(err.Error(), "UNAUTHORIZED"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal server error", "INTERNAL"))
	}
}

func writeZip(c *gin.Context, name string, archive []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/zip", archive)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
