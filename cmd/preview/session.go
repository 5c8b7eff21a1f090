package main

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	sessionObject   = "preview"
	sessionProperty = "session"
)

// SessionState is what the preview remembers between runs.
type SessionState struct {
	LastFile string  `yaml:"lastFile"`
	Playhead float64 `yaml:"playhead"`
	Live     bool    `yaml:"live"`
}

// Session persists preview state through gdata. A nil manager degrades to
// in-memory only.
type Session struct {
	manager *gdata.Manager
	state   SessionState
}

func openSession() *Session {
	manager, err := gdata.Open(gdata.Config{AppName: "cutscene-preview"})
	if err != nil {
		log.Printf("session storage unavailable: %v", err)
		manager = nil
	}
	s := &Session{manager: manager}
	if err := s.load(); err != nil {
		log.Printf("load session: %v", err)
	}
	return s
}

func (s *Session) load() error {
	if s.manager == nil || !s.manager.ObjectPropExists(sessionObject, sessionProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(sessionObject, sessionProperty)
	if err != nil {
		return fmt.Errorf("load session prop: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.state); err != nil {
		s.state = SessionState{}
		return fmt.Errorf("unmarshal session: %w", err)
	}
	return nil
}

func (s *Session) Save(state SessionState) {
	s.state = state
	if s.manager == nil {
		return
	}
	data, err := yaml.Marshal(&s.state)
	if err != nil {
		log.Printf("marshal session: %v", err)
		return
	}
	if err := s.manager.SaveObjectProp(sessionObject, sessionProperty, data); err != nil {
		log.Printf("save session: %v", err)
	}
}

func (s *Session) State() SessionState {
	return s.state
}
