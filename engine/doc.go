// Package engine holds per-engine runtime state: the singleton instance
// cache and the meta-object resolver.
//
// An Engine is the unit of isolation. Script evaluation and singleton
// resolution for one engine run on one goroutine at a time; two engines
// never share singleton instances, even for the same descriptor. The main
// hazard inside one engine is therefore not a data race but reentrancy: a
// singleton factory may trigger evaluation that asks for a singleton again
// before the first instance has been published. The cache detects that and
// fails fast with a RECURSIVE_SINGLETON_INIT error instead of running the
// factory twice.
//
//	reg := registry.New()
//	// ... register types ...
//	eng := engine.New(reg)
//	defer eng.Close()
//
//	desc, _ := reg.Lookup(id)
//	mo, err := eng.ResolveMeta(desc) // descriptor matching the live instance
package engine
