package app

import (
	"sync"

	"devsocial/internal/domain"
)

// PostHub relays like results between views that hold copies of the same
// post. Views opt in with WithHub; without a hub each view only reconciles
// its own copy.
type PostHub struct {
	mu   sync.Mutex
	subs map[int]func(postID string, res domain.LikeResult)
	next int
}

// NewPostHub creates an empty hub.
func NewPostHub() *PostHub {
	return &PostHub{subs: make(map[int]func(string, domain.LikeResult))}
}

// Subscribe registers fn and returns its id and an unsubscribe function.
func (h *PostHub) Subscribe(fn func(postID string, res domain.LikeResult)) (id int, cancel func()) {
	h.mu.Lock()
	id = h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()
	return id, func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Publish delivers res to every subscriber except from. It must not be
// called with a view lock held.
func (h *PostHub) Publish(from int, postID string, res domain.LikeResult) {
	h.mu.Lock()
	targets := make([]func(string, domain.LikeResult), 0, len(h.subs))
	for id, fn := range h.subs {
		if id != from {
			targets = append(targets, fn)
		}
	}
	h.mu.Unlock()
	for _, fn := range targets {
		fn(postID, res)
	}
}

// hubLink is a view's membership in a hub.
type hubLink struct {
	hub    *PostHub
	id     int
	cancel func()
}

func (v *viewState) joinHub(fn func(string, domain.LikeResult)) hubLink {
	if v.hub == nil {
		return hubLink{}
	}
	id, cancel := v.hub.Subscribe(fn)
	return hubLink{hub: v.hub, id: id, cancel: cancel}
}

func (l hubLink) publish(postID string, res domain.LikeResult) {
	if l.hub != nil {
		l.hub.Publish(l.id, postID, res)
	}
}

func (l hubLink) leave() {
	if l.cancel != nil {
		l.cancel()
	}
}
