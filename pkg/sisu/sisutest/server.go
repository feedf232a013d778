// Package sisutest provides an in-memory Sisu API server for tests.
package sisutest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/sisugv/sisugv/pkg/sisu"
)

// UniversityID is the university id the server accepts.
const UniversityID = sisu.DefaultUniversityID

// Server serves module and course unit fixtures over HTTP. Unknown ids get
// a 404. Use [Server.URL] as the client's base URL.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	modules  map[string]sisu.ModuleVersion
	groups   map[string][]sisu.ModuleVersion
	courses  map[string][]sisu.CourseUnitVersion
	hits     map[string]int
	failures []int
}

// NewServer starts a server. It is closed when the test ends.
func NewServer(t interface{ Cleanup(func()) }) *Server {
	s := &Server{
		modules: make(map[string]sisu.ModuleVersion),
		groups:  make(map[string][]sisu.ModuleVersion),
		courses: make(map[string][]sisu.CourseUnitVersion),
		hits:    make(map[string]int),
	}
	r := chi.NewRouter()
	r.Use(s.count, s.fail)
	r.Get("/modules/by-group-id", s.moduleGroup)
	r.Get("/modules/{id}", s.module)
	r.Get("/course-units/by-group-id", s.courseUnit)
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddProgramme registers a module served at /modules/{id}.
func (s *Server) AddProgramme(m sisu.ModuleVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules[m.ID] = m
}

// AddModuleGroup registers the versions of a module group.
func (s *Server) AddModuleGroup(groupID string, versions ...sisu.ModuleVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[groupID] = append(s.groups[groupID], versions...)
}

// AddCourseUnit registers the versions of a course unit group.
func (s *Server) AddCourseUnit(groupID string, versions ...sisu.CourseUnitVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[groupID] = append(s.courses[groupID], versions...)
}

// FailNext makes the next len(statuses) requests fail with the given
// status codes, in order.
func (s *Server) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, statuses...)
}

// Hits returns the number of requests received for a path, e.g.
// "/modules/otm-1" or "/course-units/by-group-id".
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Total returns the number of requests received.
func (s *Server) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.hits {
		n += h
	}
	return n
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) fail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var status int
		if len(s.failures) > 0 {
			status, s.failures = s.failures[0], s.failures[1:]
		}
		s.mu.Unlock()
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) module(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	m, ok := s.modules[chi.URLParam(r, "id")]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, m)
}

func (s *Server) moduleGroup(w http.ResponseWriter, r *http.Request) {
	if !university(w, r) {
		return
	}
	s.mu.Lock()
	versions, ok := s.groups[r.URL.Query().Get("groupId")]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, versions)
}

func (s *Server) courseUnit(w http.ResponseWriter, r *http.Request) {
	if !university(w, r) {
		return
	}
	s.mu.Lock()
	versions, ok := s.courses[r.URL.Query().Get("groupId")]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, versions)
}

func university(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Query().Get("universityId") != UniversityID {
		http.Error(w, "unknown university", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
