// Package tracker backs the bookmarked-jobs screen: a read-mostly view of
// the dataset restricted to bookmarked ids.
package tracker

import (
	"context"

	"jobboard-engine/internal/bookmarks"
	"jobboard-engine/internal/domain"
)

type View struct {
	jobs  []domain.Job
	store *bookmarks.Store
	marks bookmarks.Set
}

// Open reads the bookmark set fresh from store.
func Open(ctx context.Context, jobs []domain.Job, store *bookmarks.Store) *View {
	return &View{jobs: jobs, store: store, marks: store.Load(ctx)}
}

// Jobs returns the bookmarked jobs in dataset order. Bookmarked ids with
// no matching job are kept in the set but not listed.
func (v *View) Jobs() []domain.Job {
	out := make([]domain.Job, 0, len(v.marks))
	for _, j := range v.jobs {
		if v.marks.Has(j.ID) {
			out = append(out, j)
		}
	}
	return out
}

func (v *View) Count() int { return len(v.Jobs()) }

func (v *View) Bookmarks() []domain.JobID { return v.marks.IDs() }

func (v *View) IsBookmarked(id domain.JobID) bool { return v.marks.Has(id) }

// Toggle flips id and persists the whole set; the flip is undone if the
// save fails.
func (v *View) Toggle(ctx context.Context, id domain.JobID) (bool, error) {
	on := v.marks.Toggle(id)
	if err := v.store.Save(ctx, v.marks); err != nil {
		v.marks.Toggle(id)
		return !on, err
	}
	return on, nil
}

// Remove drops id. Removing an id that isn't bookmarked is a no-op and
// writes nothing.
func (v *View) Remove(ctx context.Context, id domain.JobID) error {
	if !v.marks.Has(id) {
		return nil
	}
	_, err := v.Toggle(ctx, id)
	return err
}
