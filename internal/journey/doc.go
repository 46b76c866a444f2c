// Package journey turns a backend recommendation response into mood sections ready for display.
//
// # Grouping
//
// Two strategies partition a flat track list into [models.MoodBucket] values:
//
//   - [ServerLabeled] trusts each track's mood field. Keys are lowercased, unlabelled tracks go to "other",
//     and buckets appear in the order their key is first seen.
//   - [Positional] is used when no track carries a mood. The list is cut into contiguous slices of
//     ceil(n/5) tracks mapped onto [PositionalOrder]; the last slice may be shorter.
//
// [Group] picks the strategy from the data.
//
// # Results
//
// The backend response is decided once at the network boundary into a [Result]: either [Success] or [Failure].
// [Render] produces a [View] from either one, so callers never re-check optional response fields.
package journey
