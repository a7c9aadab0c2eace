// Package onboarding validates organization registration requests whose
// required-field set is selected by the organization type discriminant.
package onboarding

// OrgType discriminates which variant of the registration request applies.
type OrgType string

const (
	OrgTypeSchool  OrgType = "SCHOOL"
	OrgTypeCompany OrgType = "COMPANY"
)

// School types accepted by the registry of educational institutions.
const (
	SchoolTypePublic     = "PUBLIC"
	SchoolTypeSemiPublic = "SEMI_PUBLIC"
	SchoolTypePrivate    = "PRIVEE"
)

// OrganizationRequest is a registration payload. Exactly one variant's extra
// fields are mandatory at a time, chosen by OrgType; the other variant's
// fields are ignored even when populated.
type OrganizationRequest struct {
	OrgType OrgType `json:"orgType"`

	// Common fields, validated for every org type.
	Name          string `json:"name"`
	Address       string `json:"address"`
	City          string `json:"city"`
	ContactEmail  string `json:"emailContact"`
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`

	// School variant.
	AuthorizationNumber string `json:"authorizationNumber,omitempty"`
	SchoolType          string `json:"schoolType,omitempty"`
	FoundingYear        int    `json:"foundingYear,omitempty"`
	EnrollmentCount     int    `json:"enrollmentCount,omitempty"`

	// Company variant. ICE is the national company registration id.
	ICE            string `json:"ice,omitempty"`
	IndustrySector string `json:"industrySector,omitempty"`
	LegalStatus    string `json:"legalStatus,omitempty"`
}

// FieldError describes one invalid field. Validate returns the full list in
// one pass so a caller can render every problem at once.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}
