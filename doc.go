/*
Package depot provides an entity-component store for games and simulations.

Depot keeps component values in per-kind pools and indexes which entities
hold which kinds with compressed bitmaps, so boolean filters over kinds
are answered by bitmap algebra instead of scanning entities.

Core Concepts:

  - Entity: A recyclable handle that groups component values.
  - Kind: A name under which values of one Go type are stored.
  - Query: A selection of kinds, narrowed by a boolean filter over kind names.
  - View: The matching entities in ascending order, with one column per selected kind.

Filters combine kind names with '&' (and), '|' (or), '!' (not) and
parentheses. '!' binds tightest, then '&', then '|'.

Basic Usage:

	reg := depot.Factory.MustNewRegistry()

	position := depot.NewKind[Position]("Position")
	velocity := depot.NewKind[Velocity]("Velocity")

	e := reg.Create()
	position.Attach(reg, e, Position{X: 1})
	velocity.Attach(reg, e, Velocity{X: 2})

	view, _ := reg.Select("Position", "Velocity").Filter("Position & Velocity")
	depot.Each2(view, func(e depot.Entity, pos *Position, vel *Velocity) {
		pos.X += vel.X
	})

A registry is not safe for concurrent use.
*/
package depot
