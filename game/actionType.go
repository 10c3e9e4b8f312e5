package game

import (
	"cattletrail/obligation"
	"cattletrail/track"
)

// Action kinds understood by the standard catalogue.
const (
	MoveAction              obligation.Kind = "move"
	BuyCattleAction         obligation.Kind = "buy-cattle"
	HireCowboyAction        obligation.Kind = "hire-cowboy"
	GainDollarsAction       obligation.Kind = "gain-dollars"
	GainCertificateAction   obligation.Kind = "gain-certificate"
	BuildAction             obligation.Kind = "build"
	MoveEngineForwardAction obligation.Kind = "move-engine-forward"
	DeliverAction           obligation.Kind = "deliver"
	PlaceHazardAction       obligation.Kind = "place-hazard"
	PlaceTeepeeAction       obligation.Kind = "place-teepee"
	RemoveHazardAction      obligation.Kind = "remove-hazard"
	TradeWithTeepeeAction   obligation.Kind = "trade-with-teepee"
)

// Kinds the railroad hands out as follow-ups.
const (
	MoveEngineBackwardAction = track.MoveEngineBackward
	UpgradeStationAction     = track.UpgradeStation
	TakeObjectiveCardAction  = track.TakeObjectiveCard
)

// standardActions lists every kind with its effect. Follow-ups of track and
// delivery actions are immediate; those of a trail move wait their turn.
func standardActions() []Action {
	action := func(kind obligation.Kind, description string, effect Effect, immediate bool) Action {
		return Action{
			Definition: obligation.Definition{Kind: kind, Description: description},
			Effect:     effect,
			Immediate:  immediate,
		}
	}
	return []Action{
		action(MoveAction, "Move along the trail", moveEffect, false),
		action(BuyCattleAction, "Buy one card or a pair from the cattle market", buyCattleEffect, false),
		action(HireCowboyAction, "Hire a cowboy", hireCowboyEffect, false),
		action(GainDollarsAction, "Gain dollars", gainDollarsEffect, false),
		action(GainCertificateAction, "Gain a certificate", gainCertificateEffect, false),
		action(BuildAction, "Place a building on an empty building location", buildEffect, false),
		action(MoveEngineForwardAction, "Move the engine forward on the railroad", moveEngineEffect(track.Forward), true),
		action(MoveEngineBackwardAction, "Move the engine backward on the railroad", moveEngineEffect(track.Backward), true),
		action(UpgradeStationAction, "Upgrade the station the engine is on", upgradeStationEffect, true),
		action(DeliverAction, "Deliver the herd to a city", deliverEffect, true),
		action(TakeObjectiveCardAction, "Take an objective card", takeObjectiveCardEffect, true),
		action(PlaceHazardAction, "Place a hazard on the trail", placeHazardEffect, false),
		action(PlaceTeepeeAction, "Place a teepee on the trail", placeTeepeeEffect, false),
		action(RemoveHazardAction, "Remove a hazard from the trail", removeHazardEffect, false),
		action(TradeWithTeepeeAction, "Trade with a teepee on the trail", tradeWithTeepeeEffect, false),
	}
}
