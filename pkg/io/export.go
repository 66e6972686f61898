package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/member"
	"github.com/matzehuels/familytree/pkg/store"
)

// memberJSON is the persisted shape of a member. Every key is always
// written; unset values are null. Age is a number, or the category string
// of a member that only has an age group.
type memberJSON struct {
	ID               member.ID   `json:"id"`
	Name             string      `json:"name"`
	Age              any         `json:"age"`
	Gender           *string     `json:"gender"`
	Location         *string     `json:"location"`
	Occupation       *string     `json:"occupation"`
	Aspiration       *string     `json:"aspiration"`
	CauseOfDeath     *string     `json:"cause_of_death"`
	ExtraInformation *string     `json:"extra_information"`
	Father           *member.ID  `json:"father"`
	Mother           *member.ID  `json:"mother"`
	Spouses          []member.ID `json:"spouses"`
}

func toJSON(m member.Member) memberJSON {
	out := memberJSON{
		ID:               m.ID,
		Name:             m.Name,
		Location:         m.Location,
		Occupation:       m.Occupation,
		Aspiration:       m.Aspiration,
		CauseOfDeath:     m.CauseOfDeath,
		ExtraInformation: m.ExtraInformation,
		Spouses:          m.Spouses,
	}
	switch {
	case m.Age != nil:
		out.Age = *m.Age
	case m.AgeGroup != "":
		out.Age = m.AgeGroup
	}
	if m.Gender != "" {
		g := string(m.Gender)
		out.Gender = &g
	}
	if m.Father != 0 {
		out.Father = &m.Father
	}
	if m.Mother != 0 {
		out.Mother = &m.Mother
	}
	if out.Spouses == nil {
		out.Spouses = []member.ID{}
	}
	return out
}

// WriteMembers encodes every member of s as an indented JSON array, ordered
// by ID, and writes it to w. The output can be read back with
// [ReadMembers].
func WriteMembers(s *store.Store, w io.Writer) error {
	ms := s.List()
	out := make([]memberJSON, len(ms))
	for i, m := range ms {
		out[i] = toJSON(m)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return apperr.Wrap(apperr.ErrCodeIO, err, "encode members")
	}
	return nil
}

// Save replaces the members file at path with the contents of s.
//
// The document is written to a temporary file in the same directory and
// renamed over path, so a failed save leaves the previous file intact.
// Missing parent directories are created. Failures are IO_ERROR; s is
// never modified.
func Save(s *store.Store, path string) error {
	var buf bytes.Buffer
	if err := WriteMembers(s, &buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.Wrap(apperr.ErrCodeIO, err, "create directory for %s", path)
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return apperr.Wrap(apperr.ErrCodeIO, err, "save %s", path)
	}
	return nil
}
