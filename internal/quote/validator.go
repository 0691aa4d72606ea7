package quote

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/cambroos/rentals-backend/pkg/enums"
)

const (
	nameMinLen    = 2
	nameMaxLen    = 50
	emailMaxLen   = 100
	phoneMinLen   = 8
	companyMaxLen = 100
	projectMaxLen = 100
	messageMaxLen = 500
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{1,4}[)]?[-\s.]?[(]?[0-9]{1,4}[)]?[-\s.]?[0-9]{1,9}$`)

	validate = validator.New()
)

// FieldError is one human-readable problem attached to a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors lists every violation found in a single validation pass.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "invalid quote form: " + strings.Join(parts, "; ")
}

// ByField indexes messages by field name.
func (fe FieldErrors) ByField() map[string]string {
	out := make(map[string]string, len(fe))
	for _, e := range fe {
		if _, exists := out[e.Field]; !exists {
			out[e.Field] = e.Message
		}
	}
	return out
}

func (fe *FieldErrors) add(field, message string) {
	if message == "" {
		return
	}
	*fe = append(*fe, FieldError{Field: field, Message: message})
}

// Validate checks every field independently and returns either the parsed
// request or all violations at once.
func Validate(form Form) (*Request, FieldErrors) {
	f := form.trimmed()
	var errs FieldErrors

	errs.add("firstName", checkName(f.FirstName, "First name"))
	errs.add("lastName", checkName(f.LastName, "Last name"))
	errs.add("email", checkEmail(f.Email))
	errs.add("phone", checkPhone(f.Phone))
	errs.add("company", checkMaxLen(f.Company, companyMaxLen, "Company name"))
	errs.add("projectTitle", checkMaxLen(f.ProjectTitle, projectMaxLen, "Project title"))
	errs.add("message", checkMaxLen(f.Message, messageMaxLen, "Message"))

	start, startMsg := checkDate(f.StartDate, "Start date")
	errs.add("startDate", startMsg)
	end, endMsg := checkDate(f.EndDate, "End date")
	if endMsg == "" && startMsg == "" && end.Before(start) {
		endMsg = "End date must be after or equal to start date"
	}
	errs.add("endDate", endMsg)

	region, regionMsg := checkRegion(f.Country)
	errs.add("country", regionMsg)

	if len(errs) > 0 {
		return nil, errs
	}

	return &Request{
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Email:        f.Email,
		Phone:        f.Phone,
		Company:      f.Company,
		ProjectTitle: f.ProjectTitle,
		StartDate:    start,
		EndDate:      end,
		Region:       region,
		Message:      f.Message,
	}, nil
}

func checkName(value, label string) string {
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		return label + " is required"
	case n < nameMinLen:
		return fmt.Sprintf("%s must be at least %d characters", label, nameMinLen)
	case n > nameMaxLen:
		return fmt.Sprintf("%s must be less than %d characters", label, nameMaxLen)
	case !namePattern.MatchString(value):
		return label + " can only contain letters, spaces, hyphens and apostrophes"
	}
	return ""
}

func checkEmail(value string) string {
	switch {
	case value == "":
		return "Email is required"
	case validate.Var(value, "email") != nil:
		return "Please enter a valid email address"
	case utf8.RuneCountInString(value) > emailMaxLen:
		return fmt.Sprintf("Email must be less than %d characters", emailMaxLen)
	}
	return ""
}

func checkPhone(value string) string {
	switch {
	case value == "":
		return "Phone number is required"
	case utf8.RuneCountInString(value) < phoneMinLen:
		return fmt.Sprintf("Phone number must be at least %d digits", phoneMinLen)
	case !phonePattern.MatchString(value):
		return "Please enter a valid phone number"
	}
	return ""
}

func checkMaxLen(value string, limit int, label string) string {
	if utf8.RuneCountInString(value) > limit {
		return fmt.Sprintf("%s must be less than %d characters", label, limit)
	}
	return ""
}

func checkDate(value, label string) (time.Time, string) {
	if value == "" {
		return time.Time{}, label + " is required"
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, label + " must be a valid date (YYYY-MM-DD)"
	}
	return parsed, ""
}

func checkRegion(value string) (enums.Region, string) {
	region, err := enums.ParseRegion(value)
	if err != nil {
		return "", "Please select a region"
	}
	return region, ""
}
