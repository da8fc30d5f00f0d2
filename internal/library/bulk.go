package library

import (
	"context"

	"github.com/larocca/refdesk/internal/reference"
)

// BulkResult reports the outcome of a bulk mutation. Bulk operations are
// independent per reference: one failure never blocks the rest, and every
// attempted id is accounted for.
type BulkResult struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed,omitempty"`
}

// BulkFailure names one reference that could not be mutated and why.
type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// OK reports whether every attempted mutation succeeded.
func (r BulkResult) OK() bool {
	return len(r.Failed) == 0
}

// BulkDelete deletes each of the given references, releasing attached
// blobs. Missing ids are reported in the result rather than aborting the
// batch.
func (l *Library) BulkDelete(ctx context.Context, ids []string) BulkResult {
	var result BulkResult
	for _, id := range ids {
		if err := l.Delete(ctx, id); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result
}

// BulkSetFavorite sets the favorite flag on each of the given references.
func (l *Library) BulkSetFavorite(ctx context.Context, ids []string, favorite bool) BulkResult {
	var result BulkResult
	for _, id := range ids {
		_, err := l.Update(ctx, id, func(ref *reference.Reference) error {
			ref.Favorite = favorite
			return nil
		})
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result
}
