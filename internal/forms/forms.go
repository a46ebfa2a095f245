// Package forms validates the storefront's contact, login and review forms.
package forms

import (
	"errors"

	"github.com/utafrali/storefront/pkg/validator"
)

// Messages shown to the shopper.
const (
	MsgRequired     = "This field is required."
	MsgInvalidEmail = "Please enter a valid email address."
	MsgSelectRating = "Please select a rating."
	MsgCorrect      = "Please correct the errors above."

	MsgContactSent  = "Message sent successfully!"
	MsgLoginOK      = "Login successful!"
	MsgReviewThanks = "Thank you for your review!"
)

// Contact is the contact page form.
type Contact struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"notblank,mailbox"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"notblank"`
}

// Login is the header login form.
type Login struct {
	Email    string `json:"email" validate:"notblank,mailbox"`
	Password string `json:"password" validate:"notblank"`
}

// Review is the product review form. Rating 0 means no star was selected.
type Review struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name" validate:"notblank"`
	Email     string `json:"email" validate:"notblank,mailbox"`
	Review    string `json:"review" validate:"notblank"`
	Rating    int    `json:"rating" validate:"gte=1,lte=5"`
}

// Result is the outcome of validating one form submission.
type Result struct {
	Valid   bool              `json:"valid"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ValidateContact validates a contact form submission.
func ValidateContact(f Contact) Result {
	return check(f, MsgContactSent)
}

// ValidateLogin validates a login form submission.
func ValidateLogin(f Login) Result {
	return check(f, MsgLoginOK)
}

// ValidateReview validates a review form submission.
func ValidateReview(f Review) Result {
	return check(f, MsgReviewThanks)
}

func check(form any, success string) Result {
	err := validator.Validate(form)
	if err == nil {
		return Result{Valid: true, Message: success}
	}

	fields := map[string]string{}
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		for _, fe := range valErr.Errors {
			if _, seen := fields[fe.Field()]; seen {
				continue
			}
			fields[fe.Field()] = message(fe.Tag())
		}
	}
	return Result{Valid: false, Message: MsgCorrect, Errors: fields}
}

func message(tag string) string {
	switch tag {
	case "mailbox":
		return MsgInvalidEmail
	case "gte", "lte":
		return MsgSelectRating
	default:
		return MsgRequired
	}
}
