// README: Pricing service computes fares for simulated rides.
package pricing

import "ridesim/internal/types"

type Service struct {
	rate Rate
}

func NewService(rate Rate) *Service {
	if rate.Currency == "" {
		rate.Currency = "CAD"
	}
	return &Service{rate: rate}
}

// Estimate prices a ride covering distance grid blocks. Negative distances
// are treated as zero.
func (s *Service) Estimate(distance int) types.Money {
	if distance < 0 {
		distance = 0
	}
	return types.Money{
		Amount:   s.rate.BaseFare + s.rate.PerUnit*int64(distance),
		Currency: s.rate.Currency,
	}
}

// Rate returns the rate in effect, currency default applied.
func (s *Service) Rate() Rate {
	return s.rate
}
