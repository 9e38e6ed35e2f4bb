// Package session holds the mutable state of a console run: loaded specs,
// the selected operation's draft and the latest response.
package session

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/kolah/tessa/internal/document"
	"github.com/kolah/tessa/internal/model"
	"github.com/kolah/tessa/internal/request"
	"github.com/kolah/tessa/internal/sample"
)

// Entry is one loaded spec with the name it was loaded under.
type Entry struct {
	Name   string
	Result *document.Result
}

// Session is safe for concurrent use. Responses are gated by a generation
// counter so a reply landing after the user moved on is dropped instead of
// shown against the wrong request.
type Session struct {
	mu         sync.Mutex
	entries    []*Entry
	active     int
	draft      *request.Draft
	response   *request.Record
	generation uint64
	gen        *sample.Generator
}

func New() *Session {
	return &Session{active: -1, gen: sample.New()}
}

// Add stores a parsed spec and makes it the active one. Draft and response
// belong to the previously active spec, so both reset.
func (s *Session) Add(name string, res *document.Result) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &Entry{Name: name, Result: res}
	s.entries = append(s.entries, entry)
	s.active = len(s.entries) - 1
	s.reset()
	return entry
}

func (s *Session) Entries() []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]*Entry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// Active returns the selected entry and its index, or (nil, -1).
func (s *Session) Active() (*Entry, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active < 0 || s.active >= len(s.entries) {
		return nil, -1
	}
	return s.entries[s.active], s.active
}

func (s *Session) Select(i int) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.entries) {
		return nil, fmt.Errorf("no spec at index %d", i)
	}
	s.active = i
	s.reset()
	return s.entries[i], nil
}

func (s *Session) Remove(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("no spec at index %d", i)
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	switch {
	case i == s.active:
		s.active = len(s.entries) - 1
		s.reset()
	case i < s.active:
		s.active--
	}
	return nil
}

// Spec returns the active entry's document, nil when nothing is loaded.
func (s *Session) Spec() *model.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active < 0 || s.active >= len(s.entries) {
		return nil
	}
	return s.entries[s.active].Result.Spec
}

// SelectOperation starts a fresh draft for op against the active spec and
// prefills the body with a synthesized example when the operation takes
// JSON. A synthesis failure still returns the usable draft, with the error
// alongside so the caller can warn.
func (s *Session) SelectOperation(op *model.Operation) (*request.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active < 0 || s.active >= len(s.entries) {
		return nil, errors.New("no spec loaded")
	}
	spec := s.entries[s.active].Result.Spec

	d := request.NewDraft(spec, op)
	s.draft = d
	s.response = nil
	s.generation++

	if op.RequestBody != nil && op.RequestBody.HasJSON() {
		body, err := s.gen.Body(spec, op.RequestBody.JSONSchema())
		if err != nil {
			return d, fmt.Errorf("prefilling example body: %w", err)
		}
		d.Body = body.JSONIndent()
	}
	return d, nil
}

func (s *Session) Draft() *request.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// BeginRequest bumps the generation and returns the token the eventual
// response must present to CompleteRequest.
func (s *Session) BeginRequest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return s.generation
}

// CompleteRequest stores rec as the latest response. A stale token means
// the user selected another operation or sent again in the meantime; the
// record is dropped and false returned.
func (s *Session) CompleteRequest(token uint64, rec *request.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation {
		log.Debugf("dropping response for superseded request (token %d, generation %d)", token, s.generation)
		return false
	}
	s.response = rec
	return true
}

func (s *Session) Response() *request.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response
}

func (s *Session) ClearResponse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = nil
}

// reset drops draft and response. Callers hold the lock.
func (s *Session) reset() {
	s.draft = nil
	s.response = nil
	s.generation++
}
