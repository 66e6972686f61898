package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/member"
	"github.com/matzehuels/familytree/pkg/relation"
	"github.com/matzehuels/familytree/pkg/store"
)

type legacyDoc struct {
	Members       json.RawMessage   `json:"members"`
	Relationships []json.RawMessage `json:"relationships"`
}

type legacyEdge struct {
	PersonA json.RawMessage `json:"person_a"`
	PersonB json.RawMessage `json:"person_b"`
	Kind    string          `json:"kind"`
	Role    string          `json:"role"`
}

// ReadLegacy decodes a legacy edge-list document:
//
//	{
//	  "members": [{"id": 1, "name": "Grandpa"}, {"id": 2, "name": "Dad"}],
//	  "relationships": [{"person_a": 1, "person_b": 2, "kind": "parent"}]
//	}
//
// Members follow the same record rules as [ReadMembers]. Relationship
// endpoints may be IDs or unique member names; entries that are malformed or
// name unknown members are skipped with a warning. The returned edges are
// meant for [relation.Normalize], which folds them into the store.
//
// ReadLegacy fails with INVALID_FORMAT for malformed JSON and with
// INVALID_SCHEMA when the top-level value is not an object with a
// "members" array.
func ReadLegacy(r io.Reader, logger *log.Logger) (*store.Store, []relation.Edge, error) {
	if logger == nil {
		logger = log.Default()
	}
	raw, err := decodeDocument(r)
	if err != nil {
		return nil, nil, err
	}
	if t := bytes.TrimSpace(raw); len(t) == 0 || t[0] != '{' {
		return nil, nil, apperr.New(apperr.ErrCodeInvalidSchema, "top-level value must be an object with members and relationships")
	}
	var doc legacyDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, apperr.Wrap(apperr.ErrCodeInvalidSchema, err, "decode legacy document")
	}
	if doc.Members == nil {
		return nil, nil, apperr.New(apperr.ErrCodeInvalidSchema, `missing "members" array`)
	}

	elems, err := decodeArray(bytes.NewReader(doc.Members))
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.ErrCodeInvalidSchema, err, "members")
	}
	s, err := build(parseRecords(elems, logger), logger)
	if err != nil {
		return nil, nil, err
	}

	byName := make(map[string][]member.ID)
	for _, m := range s.List() {
		byName[m.Name] = append(byName[m.Name], m.ID)
	}
	endpoint := func(v json.RawMessage) (member.ID, error) {
		r, err := parseRef("person", v)
		if err != nil {
			return 0, err
		}
		if r == nil {
			return 0, errors.New("missing member")
		}
		if r.name == "" {
			return r.id, nil
		}
		if ids := byName[r.name]; len(ids) == 1 {
			return ids[0], nil
		}
		return 0, fmt.Errorf("name %s does not identify exactly one member", r)
	}

	var edges []relation.Edge
	for i, raw := range doc.Relationships {
		var le legacyEdge
		if err := json.Unmarshal(raw, &le); err != nil {
			logger.Warn("skipping relationship", "index", i, "reason", "not an object")
			continue
		}
		a, errA := endpoint(le.PersonA)
		b, errB := endpoint(le.PersonB)
		if err := errors.Join(errA, errB); err != nil {
			logger.Warn("skipping relationship", "index", i, "reason", apperr.UserMessage(err))
			continue
		}
		kind := strings.ToLower(strings.TrimSpace(le.Kind))
		if kind == "" {
			logger.Warn("skipping relationship", "index", i, "reason", "missing kind")
			continue
		}
		edges = append(edges, relation.Edge{PersonA: a, PersonB: b, Kind: kind, Role: le.Role})
	}
	return s, edges, nil
}

// ImportLegacy reads the legacy document at path. See [ReadLegacy].
func ImportLegacy(path string, logger *log.Logger) (*store.Store, []relation.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "legacy file %s not found", path)
		}
		return nil, nil, apperr.Wrap(apperr.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadLegacy(f, logger)
}
