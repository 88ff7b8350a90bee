package services

import (
	"fmt"
	"strings"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
	apperrors "github.com/clearesthealth/idr-benchmarking/backend/pkg/errors"
)

// CohortService turns a benchmark profile into the pair of predicates the
// rest of the pipeline evaluates: the caller's own cohort and its peer
// population.
type CohortService struct{}

// NewCohortService creates a new cohort service
func NewCohortService() *CohortService {
	return &CohortService{}
}

// ResolveCohorts validates the profile and builds the mine and peer
// predicates. Conditions are appended in a fixed order (quarter, identity,
// specialty, state, size) so identical profiles always produce identical
// predicates.
//
// Peers are deliberately scoped to specialty and quarter only. Geography and
// size never narrow the peer population, so the comparison denominator stays
// large and stable.
func (s *CohortService) ResolveCohorts(profile entities.BenchmarkProfile) (entities.Predicate, entities.Predicate, error) {
	userType := strings.TrimSpace(profile.UserType)
	identity := strings.TrimSpace(profile.IdentifyingValue)
	specialty := strings.TrimSpace(profile.Specialty)
	state := strings.TrimSpace(profile.State)
	size := strings.TrimSpace(profile.PracticeSize)
	quarter := strings.TrimSpace(profile.Quarter)

	var mine, peers entities.Predicate

	if identity == "" {
		return mine, peers, apperrors.NewValidationError(
			fmt.Sprintf("identifying value is required for user type %q", userType))
	}

	if quarter != "" {
		mine = mine.Eq(entities.FieldDataQuarter, quarter)
	}

	switch userType {
	case entities.UserTypeIndividualProvider:
		if specialty == "" {
			return mine, peers, apperrors.NewValidationError(
				"specialty is required for individual providers")
		}
		mine = mine.Eq(entities.FieldProviderName, identity)
	case entities.UserTypeProviderGroup:
		mine = mine.Contains(entities.FieldGroupName, identity)
	case entities.UserTypeLawFirm:
		mine = mine.Eq(entities.FieldProviderEmailDomain, identity)
	default:
		return mine, peers, apperrors.NewValidationError(
			fmt.Sprintf("unknown user type: %q", userType))
	}

	if specialty != "" {
		mine = mine.Eq(entities.FieldSpecialty, specialty)
	}
	if state != "" {
		mine = mine.Eq(entities.FieldState, state)
	}
	if size != "" {
		mine = mine.Eq(entities.FieldPracticeSize, size)
	}

	if quarter != "" {
		peers = peers.Eq(entities.FieldDataQuarter, quarter)
	}
	if specialty != "" {
		peers = peers.Eq(entities.FieldSpecialty, specialty)
	}

	return mine, peers, nil
}
