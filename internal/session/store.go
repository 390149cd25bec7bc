// Package session keeps one page per browser session in a TTL store.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/page"
)

// Session is one browser's page plus its display preferences
type Session struct {
	ID   string
	Page *page.Page

	mu    sync.Mutex
	lang  i18n.Lang
	theme string
}

// Prefs returns the language and theme
func (s *Session) Prefs() (i18n.Lang, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang, s.theme
}

// SetLang changes the UI language
func (s *Session) SetLang(lang i18n.Lang) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = lang
}

// SetTheme changes the theme; anything but "dark" means light
func (s *Session) SetTheme(theme string) {
	if theme != "dark" {
		theme = "light"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
}

// Defaults seed every new session
type Defaults struct {
	Lang  i18n.Lang
	Theme string
	Page  page.Options
}

// Store implements the in-memory session table. Idle sessions expire after
// the TTL and their pages are closed on eviction.
type Store struct {
	cache    *gocache.Cache
	defaults Defaults
}

// NewStore creates a session store
func NewStore(ttl time.Duration, cleanupInterval time.Duration, defaults Defaults) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if cleanupInterval <= 0 {
		cleanupInterval = ttl / 2
	}

	c := gocache.New(ttl, cleanupInterval)
	c.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.Page.Close()
		}
	})

	return &Store{cache: c, defaults: defaults}
}

// Get retrieves a live session and refreshes its TTL
func (st *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	val, found := st.cache.Get(id)
	if !found {
		return nil, false
	}
	s := val.(*Session)
	st.cache.SetDefault(id, s)
	return s, true
}

// Acquire returns the session for id, creating a fresh one under a new ID
// when id is unknown or expired. created reports whether a cookie must be set.
func (st *Store) Acquire(id string) (s *Session, created bool) {
	if s, ok := st.Get(id); ok {
		return s, false
	}

	s = &Session{
		ID:    uuid.NewString(),
		Page:  page.New(st.defaults.Page),
		lang:  st.defaults.Lang,
		theme: st.defaults.Theme,
	}
	s.SetTheme(s.theme)
	st.cache.SetDefault(s.ID, s)
	return s, true
}

// Delete removes a session and closes its page
func (st *Store) Delete(id string) {
	st.cache.Delete(id)
}

// Len returns the number of stored sessions, including expired ones not yet
// cleaned up
func (st *Store) Len() int {
	return st.cache.ItemCount()
}

// Close evicts every session. Flush would skip the eviction hook.
func (st *Store) Close() {
	for id := range st.cache.Items() {
		st.cache.Delete(id)
	}
}
