// Package conv provides safe integer type conversion utilities.
//
// Views address memory with int64 indexes while Go slices and io interfaces
// use int. These helpers check the conversion instead of truncating.
//
// For conversions that are provably safe by construction (e.g., lengths of
// existing slices), use direct type casts instead to avoid overhead.
package conv
