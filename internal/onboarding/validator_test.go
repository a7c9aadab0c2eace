package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchoolRequest() *OrganizationRequest {
	return &OrganizationRequest{
		OrgType:             OrgTypeSchool,
		Name:                "ENSA Marrakech",
		Address:             "Avenue Abdelkrim Khattabi",
		City:                "Marrakech",
		ContactEmail:        "contact@ensa.ma",
		AdminEmail:          "admin@ensa.ma",
		AdminPassword:       "s3cret!",
		AuthorizationNumber: "AUTH-2019-114",
		SchoolType:          SchoolTypePublic,
		FoundingYear:        1999,
		EnrollmentCount:     1200,
	}
}

func validCompanyRequest() *OrganizationRequest {
	return &OrganizationRequest{
		OrgType:        OrgTypeCompany,
		Name:           "Atlas Verification SARL",
		Address:        "12 Rue des Fleurs",
		City:           "Casablanca",
		ContactEmail:   "contact@atlasverif.ma",
		AdminEmail:     "admin@atlasverif.ma",
		AdminPassword:  "s3cret!",
		ICE:            "001547896000023",
		IndustrySector: "Audit",
		LegalStatus:    "SARL",
	}
}

func fieldsOf(errs []FieldError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestValidate_ValidRequests(t *testing.T) {
	assert.Empty(t, Validate(validSchoolRequest()))
	assert.Empty(t, Validate(validCompanyRequest()))
}

func TestValidate_SchoolMissingAuthorizationNumber(t *testing.T) {
	req := validSchoolRequest()
	req.AuthorizationNumber = ""

	errs := Validate(req)

	require.Len(t, errs, 1)
	assert.Equal(t, "authorizationNumber", errs[0].Field)
	// Company-only fields must never be reported for a school request.
	assert.NotContains(t, fieldsOf(errs), "ice")
	assert.NotContains(t, fieldsOf(errs), "industrySector")
	assert.NotContains(t, fieldsOf(errs), "legalStatus")
}

func TestValidate_SwitchingDiscriminantReevaluatesFromScratch(t *testing.T) {
	// School fields filled, company fields empty.
	req := validSchoolRequest()
	require.Empty(t, Validate(req))

	// Same payload, discriminant flipped: only the missing company fields
	// may be reported; the school fields are now ignored, not required.
	req.OrgType = OrgTypeCompany
	errs := Validate(req)

	assert.ElementsMatch(t, []string{"ice", "industrySector", "legalStatus"}, fieldsOf(errs))
}

func TestValidate_CompanyIgnoresPopulatedSchoolFields(t *testing.T) {
	req := validCompanyRequest()
	req.AuthorizationNumber = "AUTH-STALE-01"
	req.SchoolType = "NOT_A_SCHOOL_TYPE"
	req.FoundingYear = -5

	assert.Empty(t, Validate(req), "non-selected variant fields must not be validated")
}

func TestValidate_CollectsAllErrorsInOnePass(t *testing.T) {
	errs := Validate(&OrganizationRequest{OrgType: OrgTypeSchool})

	// Every common field plus every school field is missing; the validator
	// must report them all at once, not stop at the first.
	assert.ElementsMatch(t, []string{
		"name", "address", "city", "emailContact", "adminEmail", "adminPassword",
		"authorizationNumber", "schoolType", "foundingYear", "enrollmentCount",
	}, fieldsOf(errs))
}

func TestValidate_CommonFieldRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*OrganizationRequest)
		wantField string
	}{
		{"short name", func(r *OrganizationRequest) { r.Name = "ab" }, "name"},
		{"bad contact email", func(r *OrganizationRequest) { r.ContactEmail = "not-an-email" }, "emailContact"},
		{"bad admin email", func(r *OrganizationRequest) { r.AdminEmail = "@nope" }, "adminEmail"},
		{"short password", func(r *OrganizationRequest) { r.AdminPassword = "abc" }, "adminPassword"},
		{"blank city", func(r *OrganizationRequest) { r.City = "   " }, "city"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCompanyRequest()
			tt.mutate(req)

			errs := Validate(req)

			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantField, errs[0].Field)
		})
	}
}

func TestValidate_SchoolVariantRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*OrganizationRequest)
		wantField string
	}{
		{"unknown school type", func(r *OrganizationRequest) { r.SchoolType = "CHARTER" }, "schoolType"},
		{"founding year in the future", func(r *OrganizationRequest) { r.FoundingYear = 3000 }, "foundingYear"},
		{"founding year too old", func(r *OrganizationRequest) { r.FoundingYear = 1500 }, "foundingYear"},
		{"zero enrollment", func(r *OrganizationRequest) { r.EnrollmentCount = 0 }, "enrollmentCount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSchoolRequest()
			tt.mutate(req)

			errs := Validate(req)

			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantField, errs[0].Field)
		})
	}
}

func TestValidate_UnknownDiscriminant(t *testing.T) {
	req := validSchoolRequest()
	req.OrgType = "NGO"

	errs := Validate(req)

	require.Len(t, errs, 1)
	assert.Equal(t, "orgType", errs[0].Field)
}

func TestValidate_NilRequest(t *testing.T) {
	errs := Validate(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "request", errs[0].Field)
}
