// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"sync"

	"carvel.dev/chartnote/pkg/values"
)

// Session holds the active template and values tree. The plan is rebuilt
// only when either of them is replaced by a different instance.
type Session struct {
	opts Opts

	mu       sync.Mutex
	tpl      *Template
	vals     *values.Value
	plan     *Plan
	planTpl  *Template
	planVals *values.Value
	builds   int
}

func NewSession(opts Opts) *Session {
	return &Session{opts: opts}
}

func (s *Session) SetTemplate(tpl *Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tpl = tpl
}

func (s *Session) SetValues(vals *values.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals = vals
}

// Plan returns the plan for the active template, or nil without one.
func (s *Session) Plan() *Plan {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tpl == nil {
		return nil
	}
	if s.plan != nil && s.planTpl == s.tpl && s.planVals == s.vals {
		return s.plan
	}

	s.plan = Annotate(s.tpl, s.vals, s.opts)
	s.planTpl = s.tpl
	s.planVals = s.vals
	s.builds++

	return s.plan
}

// Builds reports how many times a plan was computed.
func (s *Session) Builds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builds
}
