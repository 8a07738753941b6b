package httpdto

import (
	"encoding/json"
	"fmt"

	"legacybook/internal/services"
)

// SubmissionFormRequest mirrors the "formData" JSON field of the intake
// multipart payload. BatchYear is a json.Number because older clients send
// it as a string.
type SubmissionFormRequest struct {
	FullName     string      `json:"fullName"`
	Institution  string      `json:"institution"`
	BatchYear    json.Number `json:"batchYear"`
	RollNumber   string      `json:"rollNumber"`
	DateOfBirth  string      `json:"dateOfBirth"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	ConsentGiven bool        `json:"consentGiven"`
}

func (r SubmissionFormRequest) ToForm() (services.SubmissionForm, error) {
	year := 0
	if r.BatchYear != "" {
		parsed, err := r.BatchYear.Int64()
		if err != nil {
			return services.SubmissionForm{}, fmt.Errorf("batchYear is not a number: %w", err)
		}
		year = int(parsed)
	}
	return services.SubmissionForm{
		FullName:     r.FullName,
		Institution:  r.Institution,
		BatchYear:    year,
		RollNumber:   r.RollNumber,
		DateOfBirth:  r.DateOfBirth,
		Email:        r.Email,
		Phone:        r.Phone,
		ConsentGiven: r.ConsentGiven,
	}, nil
}

// SubmitAcceptedResponse is the 201 body of the intake endpoint.
type SubmitAcceptedResponse struct {
	Status       string   `json:"status"`
	SubmissionID string   `json:"submissionId"`
	Tags         []string `json:"tags"`
	TopTag       string   `json:"topTag"`
}

// SubmitRejectedResponse is the 422 body of the intake endpoint.
type SubmitRejectedResponse struct {
	Status string         `json:"status"`
	Reason string         `json:"reason"`
	Tags   []string       `json:"tags"`
	TopTag string         `json:"topTag"`
	Scores map[string]int `json:"scores"`
}

// SubmitFailureResponse is the body of 4xx/5xx intake failures.
type SubmitFailureResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
