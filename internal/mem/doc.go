// Package mem provides heap allocation utilities.
//
// # Aligned Allocation
//
// Atomic compare-and-swap on 4 and 8 byte words requires the word to be
// naturally aligned. Plain make([]byte) only guarantees the alignment of its
// size class, so heap regions that must support CAS are allocated here.
package mem
