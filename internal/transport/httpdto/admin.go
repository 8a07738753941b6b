package httpdto

// UpdateReviewRequest carries the only mutable submission fields.
type UpdateReviewRequest struct {
	ReviewStatus *string `json:"review_status"`
	AdminNotes   *string `json:"admin_notes"`
}

// SignedURLRequest asks for time-limited links to a set of media paths.
type SignedURLRequest struct {
	Paths     []string `json:"paths"`
	ExpiresIn int      `json:"expiresIn"`
}

type SignedURLResponse struct {
	SignedURLs map[string]string `json:"signedUrls"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// ExportRequest selects records for bulk export, by explicit ids or filters.
type ExportRequest struct {
	SubmissionIDs []string      `json:"submissionIds"`
	Filters       ExportFilters `json:"filters"`
}

type ExportFilters struct {
	Institution  string `json:"institution"`
	BatchYear    int    `json:"batch_year"`
	ReviewStatus string `json:"review_status"`
	TopTag       string `json:"top_tag"`
}

type CreateAdminRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UpdateAdminRoleRequest struct {
	Role string `json:"role"`
}
