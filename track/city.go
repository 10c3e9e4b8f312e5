package track

import (
	"sort"

	"cattletrail/errs"
	"cattletrail/obligation"
	"cattletrail/player"
)

// City is a delivery destination.
type City string

const (
	KansasCity      City = "KANSAS_CITY"
	Topeka          City = "TOPEKA"
	Wichita         City = "WICHITA"
	ColoradoSprings City = "COLORADO_SPRINGS"
	SantaFe         City = "SANTA_FE"
	Albuquerque     City = "ALBUQUERQUE"
	ElPaso          City = "EL_PASO"
	SanDiego        City = "SAN_DIEGO"
	Sacramento      City = "SACRAMENTO"
	SanFrancisco    City = "SAN_FRANCISCO"
)

// Cities in ascending order of value.
var Cities = []City{KansasCity, Topeka, Wichita, ColoradoSprings, SantaFe, Albuquerque, ElPaso, SanDiego, Sacramento, SanFrancisco}

var cityValues = map[City]int{
	KansasCity:      0,
	Topeka:          1,
	Wichita:         4,
	ColoradoSprings: 6,
	SantaFe:         8,
	Albuquerque:     10,
	ElPaso:          12,
	SanDiego:        14,
	Sacramento:      16,
	SanFrancisco:    18,
}

// Value is the hand value needed to deliver to the city without certificates.
func (c City) Value() int {
	return cityValues[c]
}

// Signals is the number of signals an engine must pass to deliver for free.
func (c City) Signals() int {
	return signalsBelow(c.Value())
}

// MultipleDeliveries reports whether a player may deliver to the city more
// than once.
func (c City) MultipleDeliveries() bool {
	return c == KansasCity || c == SanFrancisco
}

// PossibleDelivery is a city a player can deliver to and what it yields.
type PossibleDelivery struct {
	City         City
	Certificates int // Certificates to spend
	Reward       int // Dollars after transport costs
}

// PossibleDeliveries lists the cities a player's hand can reach, cheapest first.
func (t *Track) PossibleDeliveries(p player.ID, handValue, certificates int) []PossibleDelivery {
	certificates = min(certificates, MaxCertificates)
	passed := t.SignalsPassed(p)

	var out []PossibleDelivery
	for _, city := range Cities {
		if !city.MultipleDeliveries() && t.HasDelivered(p, city) {
			continue
		}
		if city.Value() > handValue+certificates {
			continue
		}
		transport := max(0, city.Signals()-passed)
		out = append(out, PossibleDelivery{
			City:         city,
			Certificates: max(0, city.Value()-handValue),
			Reward:       handValue - transport,
		})
	}
	return out
}

// HasDelivered reports whether a player delivered to a city.
func (t *Track) HasDelivered(p player.ID, city City) bool {
	return t.Deliveries(p, city) > 0
}

// Deliveries counts a player's deliveries to a city.
func (t *Track) Deliveries(p player.ID, city City) int {
	n := 0
	for _, d := range t.deliveries[city] {
		if d == p {
			n++
		}
	}
	return n
}

// Deliver records a delivery and returns the objective cards it earns.
func (t *Track) Deliver(p player.ID, city City) ([]*obligation.Node, error) {
	if _, ok := cityValues[city]; !ok {
		return nil, errs.WithMetadata(errs.CodeInvalidMove, "unknown city: "+string(city),
			map[string]string{"city": string(city)})
	}
	if !city.MultipleDeliveries() && t.HasDelivered(p, city) {
		return nil, errs.WithMetadata(errs.CodeAlreadyDelivered, "already delivered to "+string(city),
			map[string]string{"city": string(city), "player": string(p)})
	}
	t.deliveries[city] = append(t.deliveries[city], p)

	objectives := 0
	switch city {
	case ColoradoSprings, Albuquerque:
		if t.HasDelivered(p, SantaFe) {
			objectives++
		}
	case SantaFe:
		if t.HasDelivered(p, ColoradoSprings) {
			objectives++
		}
		if t.HasDelivered(p, Albuquerque) {
			objectives++
		}
	case Topeka:
		if t.HasDelivered(p, Wichita) {
			objectives++
		}
	case Wichita:
		if t.HasDelivered(p, Topeka) {
			objectives++
		}
	}

	followUps := make([]*obligation.Node, objectives)
	for i := range followUps {
		followUps[i] = obligation.Mandatory(TakeObjectiveCard)
	}
	return followUps, nil
}

// DeliveredCities lists the cities a player delivered to, in city order.
func (t *Track) DeliveredCities(p player.ID) []City {
	var out []City
	for _, city := range Cities {
		if t.HasDelivered(p, city) {
			out = append(out, city)
		}
	}
	return out
}

// Score is the points a player earns from deliveries and upgraded stations.
func (t *Track) Score(p player.ID) int {
	both := func(a, b City) bool { return t.HasDelivered(p, a) && t.HasDelivered(p, b) }

	score := -6 * t.Deliveries(p, KansasCity)
	if both(Topeka, Wichita) {
		score -= 3
	}
	if both(Wichita, ColoradoSprings) {
		score--
	}
	if both(Albuquerque, ElPaso) {
		score += 6
	}
	if both(ElPaso, SanDiego) {
		score += 8
	}
	if both(SanDiego, Sacramento) {
		score += 4
	}
	if t.HasDelivered(p, Sacramento) {
		score += 6
	}
	score += 9 * t.Deliveries(p, SanFrancisco)

	for _, st := range t.stations {
		if st.upgradedBy(p) {
			score += st.Points
		}
	}
	return score
}

// Players lists the players with an engine on the track.
func (t *Track) Players() []player.ID {
	out := make([]player.ID, 0, len(t.positions))
	for p := range t.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
