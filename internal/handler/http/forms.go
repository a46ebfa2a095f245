package http

import (
	"encoding/json"
	"net/http"

	"github.com/utafrali/storefront/internal/forms"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

// SubmitContact handles POST /api/v1/forms/contact
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	submitForm(h, w, r, forms.ValidateContact)
}

// SubmitLogin handles POST /api/v1/forms/login
func (h *Handler) SubmitLogin(w http.ResponseWriter, r *http.Request) {
	submitForm(h, w, r, forms.ValidateLogin)
}

// SubmitReview handles POST /api/v1/forms/review
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	submitForm(h, w, r, forms.ValidateReview)
}

// submitForm decodes a form body and answers with the validation result:
// 200 when the form is valid, 422 with per-field messages otherwise. Nothing
// is sent or stored either way.
func submitForm[F any](h *Handler, w http.ResponseWriter, r *http.Request, validate func(F) forms.Result) {
	var form F
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	result := validate(form)
	status := http.StatusOK
	if !result.Valid {
		status = http.StatusUnprocessableEntity
	}
	httputil.WriteData(w, status, result)
}
