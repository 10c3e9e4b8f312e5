package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"strconv"

	"cattletrail/errs"
	"cattletrail/market"
	"cattletrail/obligation"
	"cattletrail/player"
	"cattletrail/track"
	"cattletrail/trail"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

const (
	MinPlayers = 2
	MaxPlayers = 4
)

// Setup describes a new game.
type Setup struct {
	ID        uuid.UUID // Generated when zero
	Players   []player.ID
	Beginner  bool // Neutral buildings in alphabetical order
	Simmental bool
	Rules     Rules      // Standard rules when nil
	Catalogue *Catalogue // Standard catalogue when nil
}

// GameState is the complete state of one game: the shared boards, every
// player's resources and the obligations of the current turn.
type GameState struct {
	ID      uuid.UUID
	Order   []player.ID // Seating order
	Current int         // Index into Order
	Turn    int
	Players map[player.ID]*player.State
	Trail   *trail.Board
	Track   *track.Track
	Market  *market.Market
	Stack   *obligation.Stack
	Rules   Rules

	catalogue *Catalogue
}

// New sets up a game. All random setup (neutral buildings, station masters,
// the cattle draw stack) is drawn from rnd.
func New(setup Setup, rnd *rand.Rand) (*GameState, error) {
	if err := validatePlayers(setup.Players); err != nil {
		return nil, err
	}
	id := setup.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	rules := setup.Rules
	if rules == nil {
		rules = NewStandardRules()
	}
	catalogue := setup.Catalogue
	if catalogue == nil {
		var err error
		if catalogue, err = StandardCatalogue(); err != nil {
			return nil, err
		}
	}

	board, err := trail.NewStandard(rnd, setup.Beginner)
	if err != nil {
		return nil, err
	}
	railroad := track.New(setup.Players, rnd)
	cattle, err := market.New(len(setup.Players), setup.Simmental, rnd)
	if err != nil {
		return nil, err
	}

	gs := &GameState{
		ID:        id,
		Order:     append([]player.ID(nil), setup.Players...),
		Players:   make(map[player.ID]*player.State, len(setup.Players)),
		Trail:     board,
		Track:     railroad,
		Market:    cattle,
		Stack:     obligation.NewStack(obligation.Mandatory(MoveAction)),
		Rules:     rules,
		catalogue: catalogue,
	}
	for seat, p := range setup.Players {
		gs.Players[p] = player.New(p, rules.StartingBalance(seat))
	}
	return gs, nil
}

func validatePlayers(players []player.ID) error {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return errs.WithMetadata(errs.CodeInvalidConfig,
			fmt.Sprintf("need %d to %d players, got %d", MinPlayers, MaxPlayers, len(players)),
			map[string]string{"players": strconv.Itoa(len(players))})
	}
	seen := make(map[player.ID]bool, len(players))
	for _, p := range players {
		if p == "" || seen[p] {
			return errs.WithMetadata(errs.CodeInvalidConfig, "player ids must be unique and non-empty",
				map[string]string{"player": string(p)})
		}
		seen[p] = true
	}
	return nil
}

// Player is the player whose turn it is.
func (gs *GameState) Player() player.ID {
	return gs.Order[gs.Current]
}

// PlayerState returns the resources of the current player.
func (gs *GameState) PlayerState() *player.State {
	return gs.Players[gs.Player()]
}

func (gs *GameState) NextPlayer() player.ID {
	return gs.Order[(gs.Current+1)%len(gs.Order)]
}

func (gs *GameState) Catalogue() *Catalogue {
	return gs.catalogue
}

// PossibleActions lists the kinds the current player may perform next.
func (gs *GameState) PossibleActions() []obligation.Kind {
	return gs.Stack.PossibleActions()
}

// AtKansasCity reports whether a player stands on Kansas City.
func (gs *GameState) AtKansasCity(p player.ID) bool {
	at, ok := gs.Trail.PlayerLocation(p)
	if !ok {
		return false
	}
	l, err := gs.Trail.Location(at)
	return err == nil && l.Kind == trail.KansasCityLocation
}

// Copy returns a deep copy. The rules and catalogue are shared.
func (gs *GameState) Copy() *GameState {
	c := *gs
	c.Order = append([]player.ID(nil), gs.Order...)
	c.Players = make(map[player.ID]*player.State, len(gs.Players))
	for p, ps := range gs.Players {
		c.Players[p] = ps.Copy()
	}
	c.Trail = gs.Trail.Copy()
	c.Track = gs.Track.Copy()
	c.Market = gs.Market.Copy()
	c.Stack = gs.Stack.Clone()
	return &c
}

// Play performs a move for the current player and returns the resulting
// state. The receiver is never modified, so a failed move leaves no trace.
func (gs *GameState) Play(m Move, rnd *rand.Rand) (*GameState, error) {
	action, err := gs.catalogue.Action(m.Kind)
	if err != nil {
		return nil, err
	}
	if !gs.Stack.CanPerform(m.Kind) {
		return nil, errs.WithMetadata(errs.CodeIllegalAction, "illegal action: "+string(m.Kind),
			map[string]string{"kind": string(m.Kind), "player": string(gs.Player())})
	}

	next := gs.Copy()
	followUps, err := action.Effect(next, m, rnd)
	if err != nil {
		return nil, err
	}
	if err := next.Stack.Perform(m.Kind); err != nil {
		return nil, err
	}
	if action.Immediate {
		next.Stack.PushImmediate(followUps...)
	} else {
		next.Stack.Push(followUps...)
	}
	return next, nil
}

// Skip skips the head obligation of the turn.
func (gs *GameState) Skip() (*GameState, error) {
	next := gs.Copy()
	if err := next.Stack.Skip(); err != nil {
		return nil, err
	}
	return next, nil
}

// EndTurn passes play to the next player, who starts with a trail move. It
// fails with SkipNotAllowed while a mandatory obligation remains.
func (gs *GameState) EndTurn() (*GameState, error) {
	if !gs.Stack.Skippable() {
		return nil, errs.WithMetadata(errs.CodeSkipNotAllowed, "mandatory actions remain",
			map[string]string{"player": string(gs.Player()), "remaining": joinKinds(gs.Stack.PossibleActions())})
	}
	next := gs.Copy()
	next.Stack.Clear()
	next.Market.FillUp()
	next.Current = (next.Current + 1) % len(next.Order)
	next.Turn++
	next.Stack.Push(obligation.Mandatory(MoveAction))
	return next, nil
}

func joinKinds(kinds []obligation.Kind) string {
	out := ""
	for i, k := range kinds {
		if i > 0 {
			out += ","
		}
		out += string(k)
	}
	return out
}

// Hash fingerprints everything that affects future play. Maps are visited in
// seating or board order so equal states hash equally.
func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()
	writeInt := func(v int) {
		binary.Write(hasher, binary.LittleEndian, int64(v))
	}
	writeString := func(s string) {
		writeInt(len(s))
		io.WriteString(hasher, s)
	}
	writeBool := func(b bool) {
		if b {
			writeInt(1)
		} else {
			writeInt(0)
		}
	}

	writeInt(gs.Current)
	writeInt(gs.Turn)

	// Players
	for _, p := range gs.Order {
		ps := gs.Players[p]
		writeString(string(p))
		writeInt(ps.Balance)
		writeInt(ps.Cowboys)
		writeInt(ps.Certificates)
		writeInt(ps.CattlePoints)
		writeInt(ps.Objectives)
		writeInt(ps.Deliveries)
		for _, t := range ps.HerdTypes() {
			writeString(t)
			writeInt(ps.Herd[t])
		}
		writeInt(len(ps.Hazards))
		for _, h := range ps.Hazards {
			writeString(h)
		}
		writeInt(len(ps.Teepees))
		for _, t := range ps.Teepees {
			writeString(t)
		}
	}

	// Trail
	for _, p := range gs.Order {
		at, ok := gs.Trail.PlayerLocation(p)
		writeBool(ok)
		writeString(at)
	}
	for _, l := range gs.Trail.Locations() {
		o, ok := gs.Trail.Occupant(l.Name)
		writeBool(ok)
		if ok {
			writeString(string(o.Owner))
			writeString(o.Label)
			writeInt(o.Toll)
		}
	}

	// Railroad
	positions := gs.Track.Positions()
	for _, p := range gs.Order {
		writeString(positions[p])
		for _, city := range track.Cities {
			writeInt(gs.Track.Deliveries(p, city))
		}
	}
	for _, st := range gs.Track.Stations() {
		writeString(st.Master)
		for _, p := range gs.Order {
			_, upgraded := st.Upgraded[p]
			writeBool(upgraded)
		}
	}

	// Market
	for _, c := range gs.Market.Available() {
		writeInt(c.ID)
	}
	drawStack := gs.Market.DrawStack()
	writeInt(len(drawStack))
	for _, c := range drawStack {
		writeInt(c.ID)
	}

	// Obligations
	writeInt(len(gs.Stack.Immediate))
	for _, t := range gs.Stack.Immediate {
		t.Fingerprint(hasher)
	}
	writeInt(len(gs.Stack.Trees))
	for _, t := range gs.Stack.Trees {
		t.Fingerprint(hasher)
	}

	return StateHash(hasher.Sum64())
}
