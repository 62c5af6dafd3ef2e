// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session ties a view-model tree to the change log and
// configuration of one client. Each processing cycle mutates the tree,
// and then drains the log into the patches sent to the client.
package session

import (
	"log/slog"

	"cogentcore.org/xson/bind"
	"cogentcore.org/xson/changes"
	"cogentcore.org/xson/config"
	"cogentcore.org/xson/errs"
	"cogentcore.org/xson/patch"
	"cogentcore.org/xson/tree"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Session is the view-model tree of one client, with the change log
// that the tree records into. A Session is used by one logical unit of
// work at a time.
type Session struct {

	// ID is the unique identifier of the session.
	ID uuid.UUID

	// Root is the root node of the tree.
	Root tree.Node

	// Log is the change log of the tree.
	Log *changes.Log

	// Config is the configuration of the session, a copy of the
	// configuration it was created with.
	Config *config.Config
}

// New returns a new session for the given root node, which must not have
// a parent. The tree records into the new change log of the session, and
// its bindings are compiled with a copy of the given configuration,
// which can be nil to use [config.Default].
func New(root tree.Node, cfg *config.Config) (*Session, error) {
	nb := root.AsTree()
	if !nb.IsRoot() {
		return nil, errs.New(errs.ParentReassignment, nb.String(), "the root of a session must not have a parent")
	}
	c := &config.Config{}
	if cfg != nil {
		if err := copier.Copy(c, cfg); err != nil {
			return nil, err
		}
	}
	if err := c.SetDefaults(); err != nil {
		return nil, err
	}
	s := &Session{ID: uuid.New(), Root: root, Log: changes.New(), Config: c}
	nb.SetChangeLog(s.Log)
	nb.SetCompiler(bind.NewCompiler(c))
	slog.Debug("session.New", "id", s.ID, "root", nb.String())
	return s, nil
}

// Snapshot returns the JSON encoding of the whole tree, which is sent
// to a client that has no copy of it yet.
func (s *Session) Snapshot() ([]byte, error) {
	return tree.ToJSON(s.Root)
}

// Patches returns the patches for the changes recorded since the last
// call, and clears the log. It ends a processing cycle.
func (s *Session) Patches() ([]patch.Patch, error) {
	return patch.Drain(s.Log)
}

// PatchJSON returns the JSON Patch document for [Session.Patches].
func (s *Session) PatchJSON() ([]byte, error) {
	ps, err := s.Patches()
	if err != nil {
		return nil, err
	}
	return patch.Marshal(ps)
}

// Evaluate applies a JSON Patch document sent by the client to the tree
// with [patch.Evaluate].
func (s *Session) Evaluate(body []byte) error {
	err := patch.Evaluate(s.Root, body)
	if err != nil {
		slog.Warn("session.Evaluate", "id", s.ID, "err", err)
	}
	return err
}

// Close stops the tree from recording into the log of the session.
func (s *Session) Close() {
	s.Root.AsTree().SetChangeLog(nil)
	s.Log.Clear()
	slog.Debug("session.Close", "id", s.ID)
}
