// Package ranking orders emergency reports for a viewer.
//
// Ordering is recency first. Distance to the viewer only breaks exact
// timestamp ties, unless the caller asks for OrderProximity.
package ranking

import (
	"cmp"
	"slices"

	"rescueRoute/internal/domain"
)

// Rank decorates reports with their distance to viewer and sorts them by
// timestamp descending, then distance ascending. A nil viewer sorts by
// timestamp only and leaves DistanceKm at zero. Reports without a location
// are measured from (0,0). The input slice is not modified.
func Rank(viewer *domain.Coordinate, reports []domain.Report) []domain.RankedReport {
	ranked := decorate(viewer, reports)

	slices.SortStableFunc(ranked, func(a, b domain.RankedReport) int {
		if c := byRecency(a, b); c != 0 || viewer == nil {
			return c
		}
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	return ranked
}

// RankBy is Rank with a selectable primary key. OrderProximity puts the
// nearest located reports first, breaks ties by recency and keeps reports
// without a location at the end. Without a viewer every order degrades to
// recency.
func RankBy(order domain.RankOrder, viewer *domain.Coordinate, reports []domain.Report) []domain.RankedReport {
	if order != domain.OrderProximity || viewer == nil {
		return Rank(viewer, reports)
	}

	ranked := decorate(viewer, reports)

	slices.SortStableFunc(ranked, func(a, b domain.RankedReport) int {
		aLocated, bLocated := a.Location != nil, b.Location != nil
		if aLocated != bLocated {
			if aLocated {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.DistanceKm, b.DistanceKm); c != 0 {
			return c
		}
		return byRecency(a, b)
	})

	return ranked
}

func decorate(viewer *domain.Coordinate, reports []domain.Report) []domain.RankedReport {
	ranked := make([]domain.RankedReport, len(reports))
	for i, r := range reports {
		var target domain.Coordinate
		if r.Location != nil {
			target = *r.Location
			r.Location = &target
		}
		ranked[i] = domain.RankedReport{Report: r}
		if viewer == nil {
			continue
		}
		ranked[i].DistanceKm = Distance(*viewer, target)
	}
	return ranked
}

// newest first
func byRecency(a, b domain.RankedReport) int {
	return b.Timestamp.Compare(a.Timestamp)
}
