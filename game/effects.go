package game

import (
	"sort"
	"strconv"

	"cattletrail/errs"
	"cattletrail/obligation"
	"cattletrail/track"
	"cattletrail/trail"

	"golang.org/x/exp/rand"
)

// Hazard types and teepee colours placed from Kansas City.
var (
	HazardTypes  = []string{"DROUGHT", "FLOOD", "ROCKFALL"}
	TeepeeColors = []string{"BLUE", "GREEN"}
)

func invalidMove(message string, metadata map[string]string) error {
	return errs.WithMetadata(errs.CodeInvalidMove, message, metadata)
}

// moveEffect walks the current player along the trail, paying tolls to the
// owners and the bank, and grants the actions of the location reached.
func moveEffect(gs *GameState, m Move, _ *rand.Rand) ([]*obligation.Node, error) {
	p := gs.Player()
	ps := gs.PlayerState()

	route, err := gs.Trail.Move(p, m.To, ps.Balance, 1, gs.Rules.StepLimit(len(gs.Order)), m.Via)
	if err != nil {
		return nil, err
	}
	if err := ps.PayDollars(route.Cost); err != nil {
		return nil, err
	}
	for owner, fee := range route.Fees {
		if other, ok := gs.Players[owner]; ok {
			other.GainDollars(fee)
		}
	}

	tree, ok := gs.locationTree(route.To())
	if !ok {
		return nil, nil
	}
	return []*obligation.Node{tree}, nil
}

// locationTree is what landing on a location grants the current player.
func (gs *GameState) locationTree(name string) (*obligation.Node, bool) {
	l, err := gs.Trail.Location(name)
	if err != nil {
		return nil, false
	}
	switch l.Kind {
	case trail.KansasCityLocation:
		return gs.catalogue.LocationTree(KansasCityTree)
	case trail.BuildingLocation:
		o, ok := gs.Trail.Occupant(name)
		if !ok {
			return nil, false
		}
		if l.Neutral {
			return gs.catalogue.LocationTree(o.Label)
		}
		if o.Owner == gs.Player() {
			return gs.catalogue.LocationTree(PlayerBuildingTree)
		}
	}
	return nil, false
}

func buyCattleEffect(gs *GameState, m Move, _ *rand.Rand) ([]*obligation.Node, error) {
	ps := gs.PlayerState()
	price, cards, err := gs.Market.Buy(m.Cards, ps.Cowboys, ps.Balance)
	if err != nil {
		return nil, err
	}
	if err := ps.PayDollars(price.Dollars); err != nil {
		return nil, err
	}
	for _, c := range cards {
		ps.AddCattle(c.Type, c.Value, c.Points)
	}
	return nil, nil
}

func hireCowboyEffect(gs *GameState, _ Move, _ *rand.Rand) ([]*obligation.Node, error) {
	ps := gs.PlayerState()
	if ps.Cowboys >= gs.Rules.MaxCowboys() {
		return nil, errs.WithMetadata(errs.CodeNotEnoughResource, "no cowboys left to hire",
			map[string]string{"cowboys": strconv.Itoa(ps.Cowboys)})
	}
	if err := ps.PayDollars(gs.Rules.HireCost()); err != nil {
		return nil, err
	}
	ps.Cowboys++
	return nil, nil
}

func gainDollarsEffect(gs *GameState, _ Move, _ *rand.Rand) ([]*obligation.Node, error) {
	gs.PlayerState().GainDollars(gs.Rules.DollarsGained())
	return nil, nil
}

func gainCertificateEffect(gs *GameState, _ Move, _ *rand.Rand) ([]*obligation.Node, error) {
	gs.PlayerState().GainCertificates(1)
	return nil, nil
}

func buildEffect(gs *GameState, m Move, _ *rand.Rand) ([]*obligation.Node, error) {
	if m.Building == "" {
		return nil, invalidMove("building required", map[string]string{"location": m.To})
	}
	ps := gs.PlayerState()
	if err := ps.CanPay(gs.Rules.BuildCost()); err != nil {
		return nil, err
	}
	if err := gs.Trail.PlaceBuilding(m.To, ps.ID, m.Building, gs.Rules.BuildingToll()); err != nil {
		return nil, err
	}
	return nil, ps.PayDollars(gs.Rules.BuildCost())
}

func moveEngineEffect(dir track.Direction) Effect {
	return func(gs *GameState, m Move, _ *rand.Rand) ([]*obligation.Node, error) {
		minSteps, maxSteps := gs.Rules.EngineWindow(dir)
		var (
			mv  track.EngineMove
			err error
		)
		if dir == track.Forward {
			mv, err = gs.Track.MoveForward(gs.Player(), m.To, minSteps, maxSteps)
		} else {
			mv, err = gs.Track.MoveBackward(gs.Player(), m.To, minSteps, maxSteps)
		}
		if err != nil {
			return nil, err
		}
		return mv.FollowUps, nil
	}
}

func upgradeStationEffect(gs *GameState, _ Move, _ *rand.Rand) ([]*obligation.Node, error) {
	ps := gs.PlayerState()
	st, ok := gs.Track.CurrentStation(ps.ID)
	if !ok {
		return nil, invalidMove("no station here", map[string]string{"space": gs.Track.CurrentSpace(ps.ID)})
	}
	if err := ps.CanPay(st.Cost); err != nil {
		return nil, err
	}
	if _, err := gs.Track.UpgradeStation(ps.ID); err != nil {
		return nil, err
	}
	return nil, ps.PayDollars(st.Cost)
}

// deliverEffect ships the herd from Kansas City. The player spends the
// certificates the city needs, collects the reward and starts the trail
// again.
func deliverEffect(gs *GameState, m Move, _ *rand.Rand) ([]*obligation.Node, error) {
	ps := gs.PlayerState()
	if !gs.AtKansasCity(ps.ID) {
		return nil, invalidMove("deliveries start at kansas city", map[string]string{"player": string(ps.ID)})
	}
	if !m.City.MultipleDeliveries() && gs.Track.HasDelivered(ps.ID, m.City) {
		return nil, errs.WithMetadata(errs.CodeAlreadyDelivered, "already delivered to "+string(m.City),
			map[string]string{"city": string(m.City), "player": string(ps.ID)})
	}

	var delivery track.PossibleDelivery
	found := false
	for _, d := range gs.Track.PossibleDeliveries(ps.ID, ps.HandValue(), ps.Certificates) {
		if d.City == m.City {
			delivery, found = d, true
		}
	}
	if !found {
		return nil, invalidMove("herd cannot reach "+string(m.City), map[string]string{
			"city":         string(m.City),
			"handValue":    strconv.Itoa(ps.HandValue()),
			"certificates": strconv.Itoa(ps.Certificates),
		})
	}
	if delivery.Reward < 0 {
		if err := ps.CanPay(-delivery.Reward); err != nil {
			return nil, err
		}
	}

	followUps, err := gs.Track.Deliver(ps.ID, m.City)
	if err != nil {
		return nil, err
	}
	if err := ps.SpendCertificates(delivery.Certificates); err != nil {
		return nil, err
	}
	ps.GainDollars(delivery.Reward)
	ps.Deliveries++
	gs.Trail.MoveToStart(ps.ID)
	return followUps, nil
}

func takeObjectiveCardEffect(gs *GameState, _ Move, _ *rand.Rand) ([]*obligation.Node, error) {
	gs.PlayerState().Objectives++
	return nil, nil
}

// placeHazardEffect places the requested hazard, or one drawn from the types
// that still have a free slot.
func placeHazardEffect(gs *GameState, m Move, rnd *rand.Rand) ([]*obligation.Node, error) {
	candidates := []string{m.Hazard}
	if m.Hazard == "" {
		candidates = append([]string(nil), HazardTypes...)
		rnd.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	}
	for _, hazard := range candidates {
		if _, ok := gs.Trail.PlaceHazard(hazard, gs.Rules.HazardToll()); ok {
			return nil, nil
		}
	}
	return nil, invalidMove("no free hazard slot", map[string]string{"hazard": m.Hazard})
}

func placeTeepeeEffect(gs *GameState, m Move, rnd *rand.Rand) ([]*obligation.Node, error) {
	color := m.Teepee
	if color == "" {
		color = TeepeeColors[rnd.Intn(len(TeepeeColors))]
	}
	if _, ok := gs.Trail.PlaceTeepee(color, gs.Rules.TeepeeToll()); !ok {
		return nil, invalidMove("no free teepee slot", map[string]string{"teepee": color})
	}
	return nil, nil
}

// occupied returns the occupant of a location of the given kind. Reserve
// slots off the trail count too.
func (gs *GameState) occupied(name string, kind trail.LocationKind) (trail.Location, trail.Occupant, error) {
	l, err := gs.Trail.Location(name)
	if err != nil {
		return trail.Location{}, trail.Occupant{}, err
	}
	o, ok := gs.Trail.Occupant(name)
	if l.Kind != kind || !ok {
		return trail.Location{}, trail.Occupant{}, invalidMove("nothing to take at "+name,
			map[string]string{"location": name, "kind": kind.String()})
	}
	return l, o, nil
}

func removeHazardEffect(gs *GameState, m Move, _ *rand.Rand) ([]*obligation.Node, error) {
	ps := gs.PlayerState()
	_, o, err := gs.occupied(m.To, trail.HazardLocation)
	if err != nil {
		return nil, err
	}
	if err := ps.CanPay(gs.Rules.RemoveHazardCost()); err != nil {
		return nil, err
	}
	if _, err := gs.Trail.Remove(m.To); err != nil {
		return nil, err
	}
	ps.Hazards = append(ps.Hazards, o.Label)
	sort.Strings(ps.Hazards)
	return nil, ps.PayDollars(gs.Rules.RemoveHazardCost())
}

// tradeWithTeepeeEffect takes a teepee from the board. The slot's number is
// the dollars gained, or paid when it is negative.
func tradeWithTeepeeEffect(gs *GameState, m Move, _ *rand.Rand) ([]*obligation.Node, error) {
	ps := gs.PlayerState()
	l, o, err := gs.occupied(m.To, trail.TeepeeLocation)
	if err != nil {
		return nil, err
	}
	if l.Number < 0 {
		if err := ps.CanPay(-l.Number); err != nil {
			return nil, err
		}
	}
	if _, err := gs.Trail.Remove(m.To); err != nil {
		return nil, err
	}
	if l.Number < 0 {
		if err := ps.PayDollars(-l.Number); err != nil {
			return nil, err
		}
	} else {
		ps.GainDollars(l.Number)
	}
	ps.Teepees = append(ps.Teepees, o.Label)
	sort.Strings(ps.Teepees)
	return nil, nil
}
