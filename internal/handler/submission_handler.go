package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"legacybook/internal/services"
	"legacybook/internal/transport/httpdto"
	legacy_errors "legacybook/pkg/errors"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	intake *services.IntakeService
}

func NewSubmissionHandler(intake *services.IntakeService) *SubmissionHandler {
	return &SubmissionHandler{intake: intake}
}

// Create handles the public multipart intake endpoint.
func (h *SubmissionHandler) Create(c *gin.Context) {
	submissionID := c.PostForm("submissionId")
	if submissionID == "" {
		c.JSON(http.StatusBadRequest, httpdto.SubmitFailureResponse{Error: "submissionId is required"})
		return
	}

	formJSON := c.PostForm("formData")
	if formJSON == "" {
		c.JSON(http.StatusBadRequest, httpdto.SubmitFailureResponse{Error: "formData is required"})
		return
	}
	var formReq httpdto.SubmissionFormRequest
	if err := json.Unmarshal([]byte(formJSON), &formReq); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.SubmitFailureResponse{Error: "formData is not valid JSON", Details: err.Error()})
		return
	}
	form, err := formReq.ToForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.SubmitFailureResponse{Error: "formData is invalid", Details: err.Error()})
		return
	}

	audio, err := readUpload(c, "audioFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.SubmitFailureResponse{Error: "audioFile could not be read", Details: err.Error()})
		return
	}
	video, err := readUpload(c, "videoFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.SubmitFailureResponse{Error: "videoFile could not be read", Details: err.Error()})
		return
	}

	result, err := h.intake.Submit(c.Request.Context(), services.SubmitInput{
		SubmissionID: submissionID,
		Form:         form,
		MessageText:  c.PostForm("messageText"),
		Audio:        audio,
		Video:        video,
	})
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}

	if !result.Accepted {
		c.JSON(http.StatusUnprocessableEntity, httpdto.SubmitRejectedResponse{
			Status: "rejected",
			Reason: result.Reason,
			Tags:   result.Tagging.Tags,
			TopTag: result.Tagging.TopTag,
			Scores: result.Tagging.Scores,
		})
		return
	}

	c.JSON(http.StatusCreated, httpdto.SubmitAcceptedResponse{
		Status:       "accepted",
		SubmissionID: result.SubmissionID,
		Tags:         result.Tagging.Tags,
		TopTag:       result.Tagging.TopTag,
	})
}

func (h *SubmissionHandler) writeSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, legacy_errors.ErrInvalidInput),
		errors.Is(err, legacy_errors.ErrConsentMissing),
		errors.Is(err, legacy_errors.ErrTooLarge):
		c.JSON(http.StatusBadRequest, httpdto.SubmitFailureResponse{Error: err.Error()})
	case errors.Is(err, legacy_errors.ErrConflict),
		errors.Is(err, legacy_errors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, httpdto.SubmitFailureResponse{Error: "duplicate submission", Details: err.Error()})
	default:
		// Uploads were rolled back; the whole payload can be resubmitted.
		c.JSON(http.StatusInternalServerError, httpdto.SubmitFailureResponse{Error: "Submission failed", Details: err.Error()})
	}
}

func readUpload(c *gin.Context, field string) (*services.MediaUpload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return readUploadHeader(fileHeader)
}

func readUploadHeader(fileHeader *multipart.FileHeader) (*services.MediaUpload, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &services.MediaUpload{
		Data:        data,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}, nil
}
