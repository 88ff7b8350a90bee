package services

import (
	"fmt"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
)

// Thresholds for insight categorization. Identical across user types; only
// the copy varies.
const (
	winRateThreshold         = 5.0
	offerThreshold           = 20.0
	lowVolumeThreshold       = 50
	broadCoverageSpecialties = 5
)

// InsightService turns the numeric deltas between a cohort and its peers
// into categorized findings. It is a pure function of its inputs: multiple
// insights may fire per call, emitted in a fixed order (win rate, offer
// strategy, volume and coverage). When the peer cohort is empty no insight
// references peer numbers.
type InsightService struct{}

// NewInsightService creates a new insight service
func NewInsightService() *InsightService {
	return &InsightService{}
}

// GenerateInsights compares mine against peers for the given user type.
func (s *InsightService) GenerateInsights(mine, peers *entities.BenchmarkResult, userType string) []entities.Insight {
	insights := []entities.Insight{}
	hasPeers := peers != nil && peers.TotalDisputes > 0

	if hasPeers {
		insights = append(insights, winRateInsight(mine, peers, userType))
		if offer := offerInsight(mine, peers, userType); offer != nil {
			insights = append(insights, *offer)
		}
	}

	insights = append(insights, volumeInsights(mine, userType)...)
	return insights
}

func winRateInsight(mine, peers *entities.BenchmarkResult, userType string) entities.Insight {
	diff := mine.ProviderWinRate - peers.ProviderWinRate
	subject := winRateSubject(userType)

	switch {
	case diff > winRateThreshold:
		return entities.Insight{
			Category: entities.InsightSuccess,
			Code:     "win_rate_above_peers",
			Title:    "Excellent Win Rate Performance",
			Message: fmt.Sprintf(
				"%s win rate of %.1f%% is %.1f percentage points above the peer average. This suggests strong case selection and preparation.",
				subject, mine.ProviderWinRate, diff),
		}
	case diff < -winRateThreshold:
		return entities.Insight{
			Category: entities.InsightWarning,
			Code:     "win_rate_below_peers",
			Title:    "Win Rate Below Peers",
			Message: fmt.Sprintf(
				"%s win rate of %.1f%% is %.1f percentage points below peers. Consider reviewing case selection criteria and documentation quality.",
				subject, mine.ProviderWinRate, -diff),
		}
	default:
		return entities.Insight{
			Category: entities.InsightInfo,
			Code:     "win_rate_in_line",
			Title:    "Win Rate In Line with Peers",
			Message: fmt.Sprintf(
				"%s win rate of %.1f%% is close to the peer average, indicating consistent performance.",
				subject, mine.ProviderWinRate),
		}
	}
}

// offerInsight fires only when both offer means exist; a delta inside the
// threshold band yields no insight at all.
func offerInsight(mine, peers *entities.BenchmarkResult, userType string) *entities.Insight {
	if mine.AvgProviderOfferPct == nil || peers.AvgProviderOfferPct == nil {
		return nil
	}
	diff := *mine.AvgProviderOfferPct - *peers.AvgProviderOfferPct
	subject := offerSubject(userType)

	switch {
	case diff > offerThreshold:
		return &entities.Insight{
			Category: entities.InsightWarning,
			Code:     "offer_above_peers",
			Title:    "High Offer Strategy",
			Message: fmt.Sprintf(
				"%s average offer of %.0f%% QPA is %.0f points above peers. Ensure strong justification for higher amounts.",
				subject, *mine.AvgProviderOfferPct, diff),
		}
	case diff < -offerThreshold:
		return &entities.Insight{
			Category: entities.InsightInfo,
			Code:     "offer_below_peers",
			Title:    "Conservative Offer Strategy",
			Message: fmt.Sprintf(
				"%s offers are %.0f points below peers. There may be opportunities to request higher amounts with proper documentation.",
				subject, -diff),
		}
	default:
		return nil
	}
}

func volumeInsights(mine *entities.BenchmarkResult, userType string) []entities.Insight {
	switch userType {
	case entities.UserTypeProviderGroup:
		return []entities.Insight{{
			Category: entities.InsightInfo,
			Code:     "group_coverage",
			Title:    "Group Coverage",
			Message: fmt.Sprintf(
				"Your group's %d disputes span %d facilities across %d states and %d specialties.",
				mine.TotalDisputes, mine.TotalFacilities, mine.StatesRepresented, mine.SpecialtiesRepresented),
		}}
	case entities.UserTypeLawFirm:
		insights := []entities.Insight{{
			Category: entities.InsightInfo,
			Code:     "firm_coverage",
			Title:    "Client Portfolio Coverage",
			Message: fmt.Sprintf(
				"Your firm's %d disputes cover %d practices across %d states and %d specialties.",
				mine.TotalDisputes, mine.TotalFacilities, mine.StatesRepresented, mine.SpecialtiesRepresented),
		}}
		if mine.SpecialtiesRepresented >= broadCoverageSpecialties {
			insights = append(insights, entities.Insight{
				Category: entities.InsightSuccess,
				Code:     "firm_broad_coverage",
				Title:    "Broad Specialty Coverage",
				Message: fmt.Sprintf(
					"Representing %d specialties gives your firm a wide view of IDR outcomes across service lines.",
					mine.SpecialtiesRepresented),
			})
		}
		return insights
	default:
		if mine.TotalDisputes < lowVolumeThreshold {
			return []entities.Insight{{
				Category: entities.InsightInfo,
				Code:     "limited_sample",
				Title:    "Limited Sample Size",
				Message: fmt.Sprintf(
					"With %d disputes, consider accumulating more data for robust benchmarking. Results may vary with larger samples.",
					mine.TotalDisputes),
			}}
		}
		return nil
	}
}

func winRateSubject(userType string) string {
	switch userType {
	case entities.UserTypeProviderGroup:
		return "Your group's"
	case entities.UserTypeLawFirm:
		return "Your clients'"
	default:
		return "Your"
	}
}

func offerSubject(userType string) string {
	switch userType {
	case entities.UserTypeProviderGroup:
		return "Your group's"
	case entities.UserTypeLawFirm:
		return "Your clients'"
	default:
		return "Your"
	}
}
