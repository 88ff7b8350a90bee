package entities

// Field names a column of the dispute table. Projections and predicates are
// expressed in terms of these constants so the postgres and in-memory record
// stores agree on the vocabulary.
type Field string

const (
	FieldDisputeNumber       Field = "dispute_number"
	FieldLineItemNumber      Field = "dli_number"
	FieldDataQuarter         Field = "data_quarter"
	FieldOutcome             Field = "payment_determination_outcome"
	FieldDefaultDecision     Field = "default_decision"
	FieldDisputeType         Field = "type_of_dispute"
	FieldLineItemType        Field = "dispute_line_item_type"
	FieldProviderName        Field = "provider_facility_name"
	FieldGroupName           Field = "provider_facility_group_name"
	FieldProviderEmailDomain Field = "provider_email_domain"
	FieldPracticeSize        Field = "practice_facility_size"
	FieldSpecialty           Field = "practice_facility_specialty"
	FieldHealthPlanName      Field = "health_plan_issuer_name"
	FieldHealthPlanDomain    Field = "health_plan_email_domain"
	FieldHealthPlanType      Field = "health_plan_type"
	FieldServiceCode         Field = "service_code"
	FieldServiceCodeType     Field = "type_of_service_code"
	FieldPlaceOfService      Field = "place_of_service_code"
	FieldServiceDescription  Field = "item_service_description"
	FieldState               Field = "location_of_service"
	FieldProviderOfferPct    Field = "provider_offer_pct_qpa"
	FieldHealthPlanOfferPct  Field = "health_plan_offer_pct_qpa"
	FieldPrevailingOfferPct  Field = "prevailing_party_offer_pct_qpa"
	FieldResolutionDays      Field = "length_determination_days"
	FieldIDRECompensation    Field = "idre_compensation"
	FieldOfferSelectedFrom   Field = "offer_selected_from"
	FieldInitiatingParty     Field = "initiating_party"
)

// Payment determination outcome values as recorded in the federal PUF.
const (
	OutcomeProviderWin   = "In Favor of Provider/Facility/AA Provider"
	OutcomeHealthPlanWin = "In Favor of Health Plan/Issuer"
)

// User types accepted by cohort resolution.
const (
	UserTypeIndividualProvider = "individual_provider"
	UserTypeProviderGroup      = "provider_group"
	UserTypeLawFirm            = "law_firm"
)

// Dispute is one arbitration case row. Nullable columns are pointers; a nil
// pointer means the source record carried no value. Only projected fields are
// populated by the record store, the rest stay zero-valued.
type Dispute struct {
	DisputeNumber       string   `json:"dispute_number"`
	LineItemNumber      *string  `json:"dli_number,omitempty"`
	DataQuarter         string   `json:"data_quarter"`
	Outcome             *string  `json:"payment_determination_outcome,omitempty"`
	DefaultDecision     *bool    `json:"default_decision,omitempty"`
	DisputeType         *string  `json:"type_of_dispute,omitempty"`
	LineItemType        *string  `json:"dispute_line_item_type,omitempty"`
	ProviderName        *string  `json:"provider_facility_name,omitempty"`
	GroupName           *string  `json:"provider_facility_group_name,omitempty"`
	ProviderEmailDomain *string  `json:"provider_email_domain,omitempty"`
	PracticeSize        *string  `json:"practice_facility_size,omitempty"`
	Specialty           *string  `json:"practice_facility_specialty,omitempty"`
	HealthPlanName      *string  `json:"health_plan_issuer_name,omitempty"`
	HealthPlanDomain    *string  `json:"health_plan_email_domain,omitempty"`
	HealthPlanType      *string  `json:"health_plan_type,omitempty"`
	ServiceCode         *string  `json:"service_code,omitempty"`
	ServiceCodeType     *string  `json:"type_of_service_code,omitempty"`
	PlaceOfService      *string  `json:"place_of_service_code,omitempty"`
	ServiceDescription  *string  `json:"item_service_description,omitempty"`
	State               *string  `json:"location_of_service,omitempty"`
	ProviderOfferPct    *float64 `json:"provider_offer_pct_qpa,omitempty"`
	HealthPlanOfferPct  *float64 `json:"health_plan_offer_pct_qpa,omitempty"`
	PrevailingOfferPct  *float64 `json:"prevailing_party_offer_pct_qpa,omitempty"`
	ResolutionDays      *float64 `json:"length_determination_days,omitempty"`
	IDRECompensation    *float64 `json:"idre_compensation,omitempty"`
	OfferSelectedFrom   *string  `json:"offer_selected_from,omitempty"`
	InitiatingParty     *string  `json:"initiating_party,omitempty"`
}

// IsProviderWin reports whether the dispute resolved in favor of the provider
// party. Records with a null outcome count as losses.
func (d *Dispute) IsProviderWin() bool {
	return d.Outcome != nil && *d.Outcome == OutcomeProviderWin
}

// BenchmarkProfile is the "who am I" input to cohort resolution.
type BenchmarkProfile struct {
	UserType         string `json:"user_type"`
	IdentifyingValue string `json:"identifying_value"`
	Specialty        string `json:"specialty,omitempty"`
	State            string `json:"state,omitempty"`
	PracticeSize     string `json:"practice_size,omitempty"`
	Quarter          string `json:"quarter,omitempty"`
}
