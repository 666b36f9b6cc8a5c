package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"funding-application-api/models"

	"github.com/xeipuuv/gojsonschema"
)

const defaultFundingCurrency = "ZAR"

var companyTypes = []interface{}{"pty_ltd", "close_corporation", "sole_proprietor", "partnership", "npo"}

var fundingTypes = []interface{}{"loan", "grant", "equity", "convertible", "revenue_share"}

type schemaMap = map[string]interface{}

func objectOf(required []string, props schemaMap) schemaMap {
	s := schemaMap{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func text(minLength int) schemaMap {
	return schemaMap{"type": "string", "minLength": minLength}
}

func number(min *float64) schemaMap {
	s := schemaMap{"type": "number"}
	if min != nil {
		s["minimum"] = *min
	}
	return s
}

func listOf(items schemaMap, minItems int) schemaMap {
	s := schemaMap{"type": "array", "items": items}
	if minItems > 0 {
		s["minItems"] = minItems
	}
	return s
}

func nonNegative() schemaMap {
	zero := 0.0
	return number(&zero)
}

func address() schemaMap {
	return objectOf(
		[]string{"street", "city", "province", "postalCode", "country"},
		schemaMap{
			"street":     text(1),
			"city":       text(1),
			"province":   text(1),
			"postalCode": text(1),
			"country":    text(1),
		},
	)
}

func yearSeries() schemaMap {
	return listOf(objectOf([]string{"year"}, schemaMap{"year": schemaMap{"type": "integer"}}), 0)
}

// sectionSchemaDocs builds the JSON schema for every section that has one.
// The company founding year is capped at currentYear.
func sectionSchemaDocs(currentYear int) map[models.SectionType]schemaMap {
	teamMember := objectOf(
		[]string{"id", "fullName", "role", "qualification", "yearsOfExperience"},
		schemaMap{
			"id":                text(1),
			"fullName":          text(1),
			"role":              text(1),
			"qualification":     text(1),
			"yearsOfExperience": nonNegative(),
		},
	)
	boardMember := objectOf(
		[]string{"id", "fullName", "role", "independent", "appointmentDate"},
		schemaMap{
			"id":              text(1),
			"fullName":        text(1),
			"role":            text(1),
			"independent":     schemaMap{"type": "boolean"},
			"appointmentDate": text(1),
		},
	)

	return map[models.SectionType]schemaMap{
		models.SectionCompanyInfo: objectOf(
			[]string{
				"name", "registrationNumber", "industry", "foundingYear", "operationalYears",
				"companyType", "registeredAddress", "operationalAddress", "contactPerson",
			},
			schemaMap{
				"name":               text(1),
				"registrationNumber": text(1),
				"industry":           text(1),
				"foundingYear":       schemaMap{"type": "integer", "minimum": 1800, "maximum": currentYear},
				"operationalYears":   nonNegative(),
				"companyType":        schemaMap{"type": "string", "enum": companyTypes},
				"registeredAddress":  address(),
				"operationalAddress": address(),
				"contactPerson": objectOf(
					[]string{"fullName", "position", "email", "phone"},
					schemaMap{
						"fullName": text(1),
						"position": text(1),
						"email":    schemaMap{"type": "string", "format": "email"},
						"phone":    text(1),
					},
				),
			},
		),
		models.SectionBusinessAssessment: objectOf(
			[]string{"businessModel", "valueProposition", "targetMarkets", "customerSegments"},
			schemaMap{
				"businessModel":       text(10),
				"valueProposition":    text(10),
				"targetMarkets":       listOf(schemaMap{"type": "string"}, 0),
				"customerSegments":    text(10),
				"marketSize":          schemaMap{"type": "string"},
				"competitivePosition": schemaMap{"type": "string"},
				"operationalCapacity": schemaMap{"type": "string"},
				"supplyChain":         schemaMap{"type": "string"},
			},
		),
		models.SectionSWOTAnalysis: objectOf(
			[]string{"strengths", "weaknesses", "opportunities", "threats"},
			schemaMap{
				"strengths":           listOf(schemaMap{"type": "string"}, 2),
				"weaknesses":          listOf(schemaMap{"type": "string"}, 2),
				"opportunities":       listOf(schemaMap{"type": "string"}, 2),
				"threats":             listOf(schemaMap{"type": "string"}, 2),
				"strategicPriorities": listOf(schemaMap{"type": "string"}, 0),
				"riskMitigation":      listOf(schemaMap{"type": "string"}, 0),
			},
		),
		models.SectionManagement: objectOf(nil, schemaMap{
			"executiveTeam":    listOf(teamMember, 0),
			"managementTeam":   listOf(teamMember, 0),
			"boardOfDirectors": listOf(boardMember, 0),
		}),
		models.SectionBusinessStrategy: objectOf(
			[]string{"executiveSummary", "missionStatement", "fundingRequirements"},
			schemaMap{
				"executiveSummary": text(50),
				"missionStatement": text(10),
				"fundingRequirements": objectOf(
					[]string{"totalAmountRequired", "currency", "fundingType", "purpose", "timeline"},
					schemaMap{
						"totalAmountRequired": schemaMap{"type": "number", "exclusiveMinimum": 0},
						"currency":            text(1),
						"fundingType":         schemaMap{"type": "string", "enum": fundingTypes},
						"purpose":             text(10),
						"timeline":            text(1),
					},
				),
			},
		),
		models.SectionFinancialProfile: objectOf(
			[]string{"monthlyRevenue", "monthlyCosts", "cashFlow", "currentAssets", "currentLiabilities", "netWorth"},
			schemaMap{
				"monthlyRevenue":       nonNegative(),
				"monthlyCosts":         nonNegative(),
				"cashFlow":             number(nil),
				"currentAssets":        nonNegative(),
				"currentLiabilities":   nonNegative(),
				"netWorth":             number(nil),
				"historicalFinancials": yearSeries(),
				"projectedRevenue":     yearSeries(),
			},
		),
	}
}

// SectionValidator checks completed sections against their schema.
// Compiled schemas are rebuilt when the calendar year rolls over.
type SectionValidator struct {
	now func() time.Time

	mu      sync.Mutex
	year    int
	schemas map[models.SectionType]*gojsonschema.Schema
}

func NewSectionValidator(now func() time.Time) *SectionValidator {
	if now == nil {
		now = time.Now
	}
	return &SectionValidator{now: now}
}

func (v *SectionValidator) compiled() (map[models.SectionType]*gojsonschema.Schema, error) {
	year := v.now().Year()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.schemas != nil && v.year == year {
		return v.schemas, nil
	}

	out := make(map[models.SectionType]*gojsonschema.Schema)
	for t, doc := range sectionSchemaDocs(year) {
		doc["$schema"] = "http://json-schema.org/draft-07/schema#"
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", t, err)
		}
		out[t] = schema
	}
	v.schemas = out
	v.year = year
	return out, nil
}

// Validate checks data against the schema for t. Sections without a schema
// always pass. A nil error means data is acceptable as a completed section.
func (v *SectionValidator) Validate(t models.SectionType, data map[string]interface{}) error {
	if !t.HasSchema() {
		return nil
	}
	schemas, err := v.compiled()
	if err != nil {
		return err
	}
	schema, ok := schemas[t]
	if !ok {
		return newInvalidSectionTypeError(string(t))
	}

	if data == nil {
		data = map[string]interface{}{}
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return &ValidationError{
			Message: "Section data could not be validated",
			Fields:  []FieldError{{Field: "data", Message: err.Error(), Code: "invalid_document"}},
		}
	}
	if result.Valid() {
		return nil
	}

	fields := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields = append(fields, FieldError{
			Field:   resultField(desc),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return &ValidationError{
		Message: fmt.Sprintf("%s section is not complete", t),
		Fields:  fields,
	}
}

func resultField(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if field == "(root)" {
		field = ""
	}
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if field == prop || strings.HasSuffix(field, "."+prop) {
				return field
			}
			if field == "" {
				return prop
			}
			return field + "." + prop
		}
	}
	if field == "" {
		return "data"
	}
	return field
}

// applySectionDefaults returns data with schema defaults filled in. The
// input map and its nested objects are left untouched.
func applySectionDefaults(t models.SectionType, data map[string]interface{}) map[string]interface{} {
	if t != models.SectionBusinessStrategy || data == nil {
		return data
	}
	req, ok := data["fundingRequirements"].(map[string]interface{})
	if !ok {
		return data
	}
	if cur, _ := req["currency"].(string); cur != "" {
		return data
	}

	withCurrency := make(map[string]interface{}, len(req)+1)
	for k, v := range req {
		withCurrency[k] = v
	}
	withCurrency["currency"] = defaultFundingCurrency

	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = v
	}
	out["fundingRequirements"] = withCurrency
	return out
}
