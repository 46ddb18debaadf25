package service

import (
	"context"

	"github.com/atozofsigns/directory-api/internal/domain"
	"github.com/atozofsigns/directory-api/internal/repo"
)

// fetchAll retrieves the entire filtered row set from the storage
// collaborator, issuing as many range requests as needed to respect the
// per-request batch cap.
//
// It first asks for an exact count, then walks sequential inclusive ranges
// [offset, min(offset+batch-1, total-1)] until the count is exhausted, a
// batch comes back short, or a batch comes back empty. A zero count issues no
// range requests at all.
//
// Fail-closed: the first failing range aborts the whole fetch with a
// *domain.FetchRangeError and everything accumulated so far is discarded.
// No retries — callers treat a failure as "no directory can be rendered".
func (s *DirectoryService) fetchAll(ctx context.Context, proj repo.Projection, filter repo.Filter, sort repo.Sort) ([]domain.Business, int, error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	var all []domain.Business
	for _, br := range domain.BatchRanges(total, s.batchSize) {
		batch, err := s.repo.FetchRange(ctx, proj, filter, sort, br)
		if err != nil {
			return nil, 0, &domain.FetchRangeError{Range: br, Err: err}
		}
		if len(batch) == 0 {
			break
		}

		all = append(all, batch...)
		s.log.DebugContext(ctx, "fetched batch",
			"range", br.String(),
			"rows", len(batch),
		)

		// Short batch means the set shrank under us; stop rather than
		// issue ranges past the end.
		if len(batch) < br.Len() {
			break
		}
	}

	s.log.DebugContext(ctx, "fetch complete", "rows", len(all), "expected", total)
	return all, total, nil
}
