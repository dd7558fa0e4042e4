package events

// Kind classifies a rules event. Interceptor predicates match on this value
// rather than inspecting concrete event types, so it doubles as the lookup
// key for rule dispatch and logging.
type Kind string

const (
	// KindDestroy - a permanent being destroyed.
	KindDestroy Kind = "DESTROY"
	// KindSacrifice - a permanent being sacrificed.
	KindSacrifice Kind = "SACRIFICE"
	// KindBecomeTapped - a permanent becoming tapped.
	KindBecomeTapped Kind = "BECOME_TAPPED"
	// KindBecomeUntapped - a permanent becoming untapped.
	KindBecomeUntapped Kind = "BECOME_UNTAPPED"

	// Kinds reserved for the wider taxonomy. No variant in this package
	// constructs them yet, but rule lookups need a stable key space.
	KindDamage           Kind = "DAMAGE"
	KindDraw             Kind = "DRAW"
	KindDiscard          Kind = "DISCARD"
	KindLifeGain         Kind = "LIFE_GAIN"
	KindLifeLoss         Kind = "LIFE_LOSS"
	KindZoneChange       Kind = "ZONE_CHANGE"
	KindEnterBattlefield Kind = "ENTER_BATTLEFIELD"
	KindPutCounters      Kind = "PUT_COUNTERS"
	KindRemoveCounters   Kind = "REMOVE_COUNTERS"
)
