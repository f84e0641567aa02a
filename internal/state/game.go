package state

import "github.com/roach88/rotasim/internal/ir"

// ActorState is one team member.
type ActorState struct {
	snapshot ir.ActorSnapshot
	Effects  *EffectManager
}

// ActorView is a point-in-time view of an actor.
type ActorView struct {
	ir.ActorSnapshot
	Effects []InstanceSnapshot `json:"effects"`
}

// NewActorState wraps an actor snapshot.
func NewActorState(s ir.ActorSnapshot) *ActorState {
	return &ActorState{snapshot: s, Effects: NewEffectManager()}
}

// ID returns the actor id.
func (a *ActorState) ID() string { return a.snapshot.ID }

// Stats returns the actor's stat block.
func (a *ActorState) Stats() ir.ActorStats { return a.snapshot.Stats }

// Snapshot returns the actor's current view.
func (a *ActorState) Snapshot() ActorView {
	return ActorView{ActorSnapshot: a.snapshot, Effects: a.Effects.Snapshot()}
}

// Game is the whole simulation state.
type Game struct {
	Team  *TeamState
	Enemy *EnemyState

	actors      map[string]*ActorState
	actorOrder  []string
	currentTime float64
	initial     Snapshot
}

// Snapshot is a point-in-time view of the whole game.
type Snapshot struct {
	Time   float64       `json:"time"`
	Team   TeamSnapshot  `json:"team"`
	Enemy  EnemySnapshot `json:"enemy"`
	Actors []ActorView   `json:"actors,omitempty"`
}

// NewGame returns the state at time zero. shift extends enemy lock windows
// across freezes; nil means no freezes.
func NewGame(team ir.TeamConfig, enemy ir.EnemyConfig, shift Shifter) *Game {
	g := &Game{
		Team:   NewTeamState(team),
		Enemy:  NewEnemyState(enemy, shift),
		actors: make(map[string]*ActorState),
	}
	g.initial = g.Snapshot()
	return g
}

// CurrentTime returns the simulation clock.
func (g *Game) CurrentTime() float64 { return g.currentTime }

// AdvanceTime moves the clock forward by dt and lets every component catch
// up. It never schedules events.
func (g *Game) AdvanceTime(dt float64) {
	if dt <= 0 {
		return
	}
	g.currentTime = ir.Round3(g.currentTime + dt)
	g.Team.AdvanceTime(dt)
	g.Enemy.AdvanceTime(g.currentTime)
}

// SetActor registers or replaces an actor.
func (g *Game) SetActor(s ir.ActorSnapshot) {
	if _, ok := g.actors[s.ID]; !ok {
		g.actorOrder = append(g.actorOrder, s.ID)
	}
	g.actors[s.ID] = NewActorState(s)
}

// Actor returns the actor with the given id.
func (g *Game) Actor(id string) (*ActorState, bool) {
	a, ok := g.actors[id]
	return a, ok
}

// Actors returns every actor in registration order.
func (g *Game) Actors() []*ActorState {
	out := make([]*ActorState, 0, len(g.actorOrder))
	for _, id := range g.actorOrder {
		out = append(out, g.actors[id])
	}
	return out
}

// InitialSnapshot returns the state as it was at construction.
func (g *Game) InitialSnapshot() Snapshot { return g.initial }

// Snapshot returns the current view.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Time:  g.currentTime,
		Team:  g.Team.Snapshot(),
		Enemy: g.Enemy.Snapshot(),
	}
	for _, a := range g.Actors() {
		s.Actors = append(s.Actors, a.Snapshot())
	}
	return s
}
