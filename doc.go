// Package statv provides observable typed state containers.
//
// The core type is Statv, which holds a fixed set of named, typed stats.
// Each stat is defined by a Stat descriptor carrying an id, a default
// resolution policy, and an optional validator applied on every write.
// Monitors fire synchronously when a write actually changes a stat's
// value, and every completed write wakes all consumers suspended in
// WaitForUpdate, so predicates like "wait until available" can be built
// by re-checking a condition across successive wakeups.
//
// # Defining stats
//
// Stats are declared once, as package-level descriptors, and collected
// into a Schema. There is no reflection: the Schema is the explicit
// registration table for a container type.
//
//	var (
//	    ConnPort  = statv.NewStat[int]("conn.port", statv.WithDefault(0))
//	    ConnAlive = statv.NewStat[bool]("conn.alive", statv.WithDefault(false))
//
//	    ConnSchema = statv.NewSchema(ConnPort, ConnAlive)
//	)
//
// # Containers
//
// A container is created per logical entity. Construction resolves an
// initial value for every declared stat, from the literal default, the
// default factory, or the supplied init map, in that order. A stat with
// none of the three aborts construction.
//
//	sv, err := statv.New(ConnSchema,
//	    statv.WithAvailable(func(sv *statv.Statv) bool {
//	        alive, _ := ConnAlive.Get(sv)
//	        return alive
//	    }),
//	)
//
// Reads and writes go through the descriptor:
//
//	port, err := ConnPort.Get(sv)
//	err = ConnAlive.Set(sv, true)
//
// # Validators
//
// A validator transforms every proposed write before it is compared and
// committed. It may clamp or coerce but cannot reject with an error;
// rejection is expressed by returning the past value. Each descriptor
// accepts exactly one validator, supplied at definition time or via a
// single SetValidator call.
//
//	Retries = statv.NewStat[int]("retries",
//	    statv.WithDefault(0),
//	    statv.WithValidator(statv.Clamp(0, 5)),
//	)
//
// # Monitors and waiting
//
// Monitors observe committed changes; they run in registration order,
// on the writing goroutine, only when the accepted value differs from
// the stored one:
//
//	statv.OnUpdate(sv, ConnAlive, func(sv *statv.Statv, s *statv.Stat[bool], past, current bool) {
//	    log.Printf("alive: %v -> %v", past, current)
//	})
//
// Waiters observe write completion. WaitForUpdate suspends until the
// next write to any stat; WaitForAvailable and WaitForUnavailable loop
// on the container's availability predicate across wakeups:
//
//	if err := sv.WaitForAvailable(ctx); err != nil {
//	    return err
//	}
//
// # Feeds
//
// A Feed drives a container from an external source. It watches a
// Watcher for raw payloads, decodes each one as a flat mapping of stat
// id to value (JSON or YAML, auto-detected by default), and applies the
// result through UpdateMulti so a single external change produces one
// broadcast. See Feed for the state machine and failure semantics.
//
//	feed := statv.NewFeed(sv, statv.NewFileWatcher("state.yaml"))
//	if err := feed.Start(ctx); err != nil {
//	    log.Printf("initial payload failed: %v", err)
//	}
package statv
