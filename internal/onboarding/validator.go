package onboarding

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const (
	minNameLength     = 3
	minPasswordLength = 6
	minFoundingYear   = 1800
)

// rule checks one field of a request and reports nil when it passes.
type rule func(req *OrganizationRequest) *FieldError

// commonRules apply to every request regardless of discriminant.
var commonRules = []rule{
	requiredMinLength("name", minNameLength, func(r *OrganizationRequest) string { return r.Name }),
	required("address", func(r *OrganizationRequest) string { return r.Address }),
	required("city", func(r *OrganizationRequest) string { return r.City }),
	requiredEmail("emailContact", func(r *OrganizationRequest) string { return r.ContactEmail }),
	requiredEmail("adminEmail", func(r *OrganizationRequest) string { return r.AdminEmail }),
	requiredMinLength("adminPassword", minPasswordLength, func(r *OrganizationRequest) string { return r.AdminPassword }),
}

// variantRules maps the discriminant to its extra-field rule set. Selecting
// from this table is the whole of the variant dispatch; no required-ness
// leaks from the variant that was not selected.
var variantRules = map[OrgType][]rule{
	OrgTypeSchool: {
		required("authorizationNumber", func(r *OrganizationRequest) string { return r.AuthorizationNumber }),
		schoolTypeRule,
		foundingYearRule,
		enrollmentCountRule,
	},
	OrgTypeCompany: {
		required("ice", func(r *OrganizationRequest) string { return r.ICE }),
		required("industrySector", func(r *OrganizationRequest) string { return r.IndustrySector }),
		required("legalStatus", func(r *OrganizationRequest) string { return r.LegalStatus }),
	},
}

// Validate checks a registration request in one pass and returns every field
// error found, or nil when the request is valid. The function is pure: each
// call re-evaluates from scratch, so switching the discriminant after
// partial input carries no state over from the previously selected variant.
func Validate(req *OrganizationRequest) []FieldError {
	if req == nil {
		return []FieldError{{Field: "request", Message: "is required"}}
	}

	var errs []FieldError
	appendRule := func(r rule) {
		if fieldErr := r(req); fieldErr != nil {
			errs = append(errs, *fieldErr)
		}
	}

	for _, r := range commonRules {
		appendRule(r)
	}

	extra, ok := variantRules[req.OrgType]
	if !ok {
		errs = append(errs, FieldError{
			Field:   "orgType",
			Message: fmt.Sprintf("must be %s or %s", OrgTypeSchool, OrgTypeCompany),
		})
		return errs
	}
	for _, r := range extra {
		appendRule(r)
	}
	return errs
}

func required(field string, get func(*OrganizationRequest) string) rule {
	return func(req *OrganizationRequest) *FieldError {
		if strings.TrimSpace(get(req)) == "" {
			return &FieldError{Field: field, Message: "is required"}
		}
		return nil
	}
}

func requiredMinLength(field string, min int, get func(*OrganizationRequest) string) rule {
	return func(req *OrganizationRequest) *FieldError {
		value := strings.TrimSpace(get(req))
		if value == "" {
			return &FieldError{Field: field, Message: "is required"}
		}
		if len(value) < min {
			return &FieldError{Field: field, Message: fmt.Sprintf("must be at least %d characters", min)}
		}
		return nil
	}
}

func requiredEmail(field string, get func(*OrganizationRequest) string) rule {
	return func(req *OrganizationRequest) *FieldError {
		value := strings.TrimSpace(get(req))
		if value == "" {
			return &FieldError{Field: field, Message: "is required"}
		}
		if _, err := mail.ParseAddress(value); err != nil {
			return &FieldError{Field: field, Message: "must be a valid email address"}
		}
		return nil
	}
}

func schoolTypeRule(req *OrganizationRequest) *FieldError {
	switch req.SchoolType {
	case SchoolTypePublic, SchoolTypeSemiPublic, SchoolTypePrivate:
		return nil
	case "":
		return &FieldError{Field: "schoolType", Message: "is required"}
	default:
		return &FieldError{
			Field: "schoolType",
			Message: fmt.Sprintf("must be one of %s, %s, %s",
				SchoolTypePublic, SchoolTypeSemiPublic, SchoolTypePrivate),
		}
	}
}

func foundingYearRule(req *OrganizationRequest) *FieldError {
	if req.FoundingYear == 0 {
		return &FieldError{Field: "foundingYear", Message: "is required"}
	}
	currentYear := time.Now().Year()
	if req.FoundingYear < minFoundingYear || req.FoundingYear > currentYear {
		return &FieldError{
			Field:   "foundingYear",
			Message: fmt.Sprintf("must be between %d and %d", minFoundingYear, currentYear),
		}
	}
	return nil
}

func enrollmentCountRule(req *OrganizationRequest) *FieldError {
	if req.EnrollmentCount <= 0 {
		return &FieldError{Field: "enrollmentCount", Message: "must be a positive number"}
	}
	return nil
}
