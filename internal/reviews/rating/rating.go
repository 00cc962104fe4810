// Package rating derives a property's average rating from its reviews.
package rating

import "rentals/pkg/model"

// Average returns the arithmetic mean of the review ratings. ok is false when
// there are no reviews, in which case the property has no rating yet.
func Average(reviews []*model.Review) (avg float64, ok bool) {
	if len(reviews) == 0 {
		return 0, false
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews)), true
}
