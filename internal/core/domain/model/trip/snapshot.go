package trip

import (
	"slices"
	"time"
)

// Snapshot is the accumulated per-step payload of a trip. Each workflow step
// owns a fixed set of named optional fields; Extra is a small extension slot
// for forward-compatible additions that have no dedicated field yet.
//
// A nil pointer means the field was never reported. An empty string is a
// placeholder a later merge may supersede; a recorded non-empty value is
// never overwritten or dropped by later merges.
type Snapshot struct {
	// step 1
	AcceptedAt *time.Time

	// step 2
	ArrivedOriginAt *time.Time

	// step 3
	OriginPreReading  *string
	OriginPostReading *string
	OriginPhotoRefs   []string

	// step 4
	OriginConfirmedBy *string

	// step 5
	ArrivedDestinationAt   *time.Time
	DestinationPreReading  *string
	DestinationPostReading *string
	DestinationPhotoRefs   []string

	// step 6
	DestinationConfirmedBy *string

	// step 7
	CompletedAt *time.Time

	// Extra carries fields without a dedicated slot. Keys are merged
	// additively and never dropped.
	Extra map[string]string
}

// Merge combines the snapshot with a later partial update and returns the
// result. Merging is strictly additive:
//   - absent incoming fields leave existing values untouched
//   - incoming values fill absent fields and supersede empty placeholders
//   - recorded non-empty values are preserved, never overwritten
//   - photo references are unioned, preserving first-seen order
//   - Extra keys are merged under the same placeholder rule
func (s Snapshot) Merge(incoming Snapshot) Snapshot {
	out := s

	out.AcceptedAt = mergeTime(s.AcceptedAt, incoming.AcceptedAt)
	out.ArrivedOriginAt = mergeTime(s.ArrivedOriginAt, incoming.ArrivedOriginAt)
	out.OriginPreReading = mergeString(s.OriginPreReading, incoming.OriginPreReading)
	out.OriginPostReading = mergeString(s.OriginPostReading, incoming.OriginPostReading)
	out.OriginPhotoRefs = mergeRefs(s.OriginPhotoRefs, incoming.OriginPhotoRefs)
	out.OriginConfirmedBy = mergeString(s.OriginConfirmedBy, incoming.OriginConfirmedBy)
	out.ArrivedDestinationAt = mergeTime(s.ArrivedDestinationAt, incoming.ArrivedDestinationAt)
	out.DestinationPreReading = mergeString(s.DestinationPreReading, incoming.DestinationPreReading)
	out.DestinationPostReading = mergeString(s.DestinationPostReading, incoming.DestinationPostReading)
	out.DestinationPhotoRefs = mergeRefs(s.DestinationPhotoRefs, incoming.DestinationPhotoRefs)
	out.DestinationConfirmedBy = mergeString(s.DestinationConfirmedBy, incoming.DestinationConfirmedBy)
	out.CompletedAt = mergeTime(s.CompletedAt, incoming.CompletedAt)
	out.Extra = mergeExtra(s.Extra, incoming.Extra)

	return out
}

// mergeTime keeps the existing timestamp once set; zero incoming values are
// treated as absent.
func mergeTime(existing, incoming *time.Time) *time.Time {
	if incoming == nil || incoming.IsZero() {
		return existing
	}
	if existing == nil || existing.IsZero() {
		v := *incoming
		return &v
	}
	return existing
}

// mergeString fills absent fields and lets non-empty values supersede empty
// placeholders. A recorded non-empty value is preserved.
func mergeString(existing, incoming *string) *string {
	if incoming == nil {
		return existing
	}
	if existing == nil || (*existing == "" && *incoming != "") {
		v := *incoming
		return &v
	}
	return existing
}

// mergeRefs unions photo references, keeping first-seen order and dropping
// duplicates so repeated merges stay idempotent.
func mergeRefs(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}

	out := slices.Clone(existing)
	for _, ref := range incoming {
		if ref == "" {
			continue
		}
		if !slices.Contains(out, ref) {
			out = append(out, ref)
		}
	}
	return out
}

// mergeExtra merges extension keys: new keys are added, empty placeholders
// may be superseded, recorded values are preserved.
func mergeExtra(existing, incoming map[string]string) map[string]string {
	if len(incoming) == 0 {
		return existing
	}

	out := make(map[string]string, len(existing)+len(incoming))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range incoming {
		if current, ok := out[k]; !ok || (current == "" && v != "") {
			out[k] = v
		}
	}
	return out
}

// IsZero reports whether nothing was ever recorded in the snapshot.
func (s Snapshot) IsZero() bool {
	return s.AcceptedAt == nil &&
		s.ArrivedOriginAt == nil &&
		s.OriginPreReading == nil &&
		s.OriginPostReading == nil &&
		len(s.OriginPhotoRefs) == 0 &&
		s.OriginConfirmedBy == nil &&
		s.ArrivedDestinationAt == nil &&
		s.DestinationPreReading == nil &&
		s.DestinationPostReading == nil &&
		len(s.DestinationPhotoRefs) == 0 &&
		s.DestinationConfirmedBy == nil &&
		s.CompletedAt == nil &&
		len(s.Extra) == 0
}
