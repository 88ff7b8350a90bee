package entities

import "strconv"

// FieldValue returns the record's value for a field as a string, and whether
// a value is present. Numeric fields are formatted with strconv; null
// pointers report absent.
func (d *Dispute) FieldValue(f Field) (string, bool) {
	switch f {
	case FieldDisputeNumber:
		return d.DisputeNumber, d.DisputeNumber != ""
	case FieldDataQuarter:
		return d.DataQuarter, d.DataQuarter != ""
	case FieldLineItemNumber:
		return strValue(d.LineItemNumber)
	case FieldOutcome:
		return strValue(d.Outcome)
	case FieldDefaultDecision:
		if d.DefaultDecision == nil {
			return "", false
		}
		return strconv.FormatBool(*d.DefaultDecision), true
	case FieldDisputeType:
		return strValue(d.DisputeType)
	case FieldLineItemType:
		return strValue(d.LineItemType)
	case FieldProviderName:
		return strValue(d.ProviderName)
	case FieldGroupName:
		return strValue(d.GroupName)
	case FieldProviderEmailDomain:
		return strValue(d.ProviderEmailDomain)
	case FieldPracticeSize:
		return strValue(d.PracticeSize)
	case FieldSpecialty:
		return strValue(d.Specialty)
	case FieldHealthPlanName:
		return strValue(d.HealthPlanName)
	case FieldHealthPlanDomain:
		return strValue(d.HealthPlanDomain)
	case FieldHealthPlanType:
		return strValue(d.HealthPlanType)
	case FieldServiceCode:
		return strValue(d.ServiceCode)
	case FieldServiceCodeType:
		return strValue(d.ServiceCodeType)
	case FieldPlaceOfService:
		return strValue(d.PlaceOfService)
	case FieldServiceDescription:
		return strValue(d.ServiceDescription)
	case FieldState:
		return strValue(d.State)
	case FieldProviderOfferPct:
		return floatValue(d.ProviderOfferPct)
	case FieldHealthPlanOfferPct:
		return floatValue(d.HealthPlanOfferPct)
	case FieldPrevailingOfferPct:
		return floatValue(d.PrevailingOfferPct)
	case FieldResolutionDays:
		return floatValue(d.ResolutionDays)
	case FieldIDRECompensation:
		return floatValue(d.IDRECompensation)
	case FieldOfferSelectedFrom:
		return strValue(d.OfferSelectedFrom)
	case FieldInitiatingParty:
		return strValue(d.InitiatingParty)
	}
	return "", false
}

// CopyField copies a single field from src into d, leaving other fields
// untouched. Used to apply projections outside SQL.
func (d *Dispute) CopyField(src *Dispute, f Field) {
	switch f {
	case FieldDisputeNumber:
		d.DisputeNumber = src.DisputeNumber
	case FieldDataQuarter:
		d.DataQuarter = src.DataQuarter
	case FieldLineItemNumber:
		d.LineItemNumber = src.LineItemNumber
	case FieldOutcome:
		d.Outcome = src.Outcome
	case FieldDefaultDecision:
		d.DefaultDecision = src.DefaultDecision
	case FieldDisputeType:
		d.DisputeType = src.DisputeType
	case FieldLineItemType:
		d.LineItemType = src.LineItemType
	case FieldProviderName:
		d.ProviderName = src.ProviderName
	case FieldGroupName:
		d.GroupName = src.GroupName
	case FieldProviderEmailDomain:
		d.ProviderEmailDomain = src.ProviderEmailDomain
	case FieldPracticeSize:
		d.PracticeSize = src.PracticeSize
	case FieldSpecialty:
		d.Specialty = src.Specialty
	case FieldHealthPlanName:
		d.HealthPlanName = src.HealthPlanName
	case FieldHealthPlanDomain:
		d.HealthPlanDomain = src.HealthPlanDomain
	case FieldHealthPlanType:
		d.HealthPlanType = src.HealthPlanType
	case FieldServiceCode:
		d.ServiceCode = src.ServiceCode
	case FieldServiceCodeType:
		d.ServiceCodeType = src.ServiceCodeType
	case FieldPlaceOfService:
		d.PlaceOfService = src.PlaceOfService
	case FieldServiceDescription:
		d.ServiceDescription = src.ServiceDescription
	case FieldState:
		d.State = src.State
	case FieldProviderOfferPct:
		d.ProviderOfferPct = src.ProviderOfferPct
	case FieldHealthPlanOfferPct:
		d.HealthPlanOfferPct = src.HealthPlanOfferPct
	case FieldPrevailingOfferPct:
		d.PrevailingOfferPct = src.PrevailingOfferPct
	case FieldResolutionDays:
		d.ResolutionDays = src.ResolutionDays
	case FieldIDRECompensation:
		d.IDRECompensation = src.IDRECompensation
	case FieldOfferSelectedFrom:
		d.OfferSelectedFrom = src.OfferSelectedFrom
	case FieldInitiatingParty:
		d.InitiatingParty = src.InitiatingParty
	}
}

func strValue(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

func floatValue(p *float64) (string, bool) {
	if p == nil {
		return "", false
	}
	return strconv.FormatFloat(*p, 'f', -1, 64), true
}
