// Package likes implements the per-post like counter: anonymous users
// toggle a like on a post slug, and the full state is persisted as a
// single JSON document through one of several backends.
package likes

import "context"

// LikeRecord holds the like state for one post. Count always equals the
// number of entries in Users after a successful toggle; the fields are
// never updated independently.
type LikeRecord struct {
	Count int      `json:"count"`
	Users []string `json:"users"`
}

// LikeStore maps post slugs to their like records. The whole map is the
// persisted document: backends fetch it and rewrite it in full on every
// change. Records appear implicitly on first toggle and are only removed
// by an admin reset.
type LikeStore map[string]LikeRecord

// LikeStatus is the API shape for like lookups and toggles.
type LikeStatus struct {
	Count    int  `json:"count"`
	IsLiked  bool `json:"isLiked"`
	Disabled bool `json:"disabled,omitempty"`
}

// Service applies status and toggle operations on top of a Store.
// A nil store runs the service in disabled mode.
type Service struct {
	store Store
}

// NewService creates a like service backed by store, which may be nil
// when no backend is configured.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Enabled reports whether a persistence backend is configured.
func (s *Service) Enabled() bool {
	return s.store != nil
}

// Status returns the current count for slug and whether userID is among
// its likers. An empty userID reports isLiked false with the real count.
func (s *Service) Status(ctx context.Context, slug, userID string) (LikeStatus, error) {
	all, err := s.store.Fetch(ctx)
	if err != nil {
		return LikeStatus{}, err
	}
	rec := all[slug]
	liked := userID != "" && indexOf(rec.Users, userID) >= 0
	return LikeStatus{Count: rec.Count, IsLiked: liked}, nil
}

// Toggle adds userID to slug's likers, or removes it when already
// present, then rewrites the full document. If the save fails the
// mutation is discarded and nothing is reported as changed.
func (s *Service) Toggle(ctx context.Context, slug, userID string) (LikeStatus, error) {
	all, err := s.store.Fetch(ctx)
	if err != nil {
		return LikeStatus{}, err
	}
	if all == nil {
		all = LikeStore{}
	}

	rec := all[slug]
	idx := indexOf(rec.Users, userID)
	liked := idx < 0
	if liked {
		rec.Users = append(rec.Users, userID)
		rec.Count++
	} else {
		rec.Users = append(rec.Users[:idx], rec.Users[idx+1:]...)
		if rec.Count > 0 {
			rec.Count--
		}
	}
	all[slug] = rec

	if err := s.store.Save(ctx, all); err != nil {
		return LikeStatus{}, err
	}
	return LikeStatus{Count: rec.Count, IsLiked: liked}, nil
}

// All returns the full like document, for the admin dashboard.
func (s *Service) All(ctx context.Context) (LikeStore, error) {
	return s.store.Fetch(ctx)
}

// Reset removes slug's record from the document entirely. This is the
// only deletion path; the public API never removes records.
func (s *Service) Reset(ctx context.Context, slug string) error {
	all, err := s.store.Fetch(ctx)
	if err != nil {
		return err
	}
	if _, ok := all[slug]; !ok {
		return nil
	}
	delete(all, slug)
	return s.store.Save(ctx, all)
}

func indexOf(users []string, id string) int {
	for i, u := range users {
		if u == id {
			return i
		}
	}
	return -1
}
