package cli

import (
	"bytes"
	"strings"
	"testing"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/member"
	"github.com/matzehuels/familytree/pkg/store"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    member.ID
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseID(%q) = %d, %v", tt.in, got, err)
		}
		if err != nil && !apperr.Is(err, apperr.ErrCodeInvalidField) {
			t.Errorf("parseID(%q) error code = %s", tt.in, apperr.GetCode(err))
		}
	}
}

func TestParseIDList(t *testing.T) {
	got, err := parseIDList(" 3, 1,,2 ")
	if err != nil || len(got) != 3 || got[0] != 3 || got[1] != 1 || got[2] != 2 {
		t.Errorf("parseIDList() = %v, %v", got, err)
	}
	if got, err := parseIDList(""); err != nil || len(got) != 0 {
		t.Errorf("parseIDList(\"\") = %v, %v", got, err)
	}
	if _, err := parseIDList("1,two"); err == nil {
		t.Error("parseIDList(\"1,two\") succeeded")
	}
}

func TestParseSortOrder(t *testing.T) {
	for in, want := range map[string]string{"last": sortLast, " First ": sortFirst, "ID": sortID} {
		if got, err := parseSortOrder(in); err != nil || got != want {
			t.Errorf("parseSortOrder(%q) = %q, %v", in, got, err)
		}
	}
	_, err := parseSortOrder("age")
	fe, ok := apperr.AsField(err)
	if !ok || len(fe.Allowed) != len(sortOrders) {
		t.Errorf("parseSortOrder(age) error = %v", err)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  y  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(tt.input), &out, "Proceed?")
		if err != nil || got != tt.want {
			t.Errorf("confirm(%q) = %v, %v, want %v", tt.input, got, err, tt.want)
		}
		if !strings.Contains(out.String(), "Proceed?") {
			t.Errorf("confirm(%q) did not print the question", tt.input)
		}
	}
}

func TestMemberDetails(t *testing.T) {
	s := store.New()
	ben, _ := s.Create(member.Fields{Name: member.String("Ben Roberson"), Age: member.Number(65), Gender: member.String("male")})
	brooke, _ := s.Create(member.Fields{Name: member.String("Brooke Roberson"), Spouses: member.Refs(ben)})
	robert, _ := s.Create(member.Fields{Name: member.String("Robert Smith"), Father: member.Ref(ben), Mother: member.Ref(brooke)})
	_, _ = s.Create(member.Fields{Name: member.String("Rita Smith"), Father: member.Ref(ben), CauseOfDeath: member.String("Old age")})

	m, _ := s.Get(robert)
	got := memberDetails(s, m)
	for _, want := range []string{
		"Robert Smith (#3)",
		"Father", "Ben Roberson (#1)",
		"Mother", "Brooke Roberson (#2)",
		"Siblings", "Rita Smith (#4)",
		iconNone,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("memberDetails() missing %q:\n%s", want, got)
		}
	}

	b, _ := s.Get(ben)
	got = memberDetails(s, b)
	for _, want := range []string{"65 (Elder)", "Male", "Brooke Roberson (#2)", "Robert Smith (#3), Rita Smith (#4)"} {
		if !strings.Contains(got, want) {
			t.Errorf("memberDetails(ben) missing %q:\n%s", want, got)
		}
	}
}

func TestMemberTable(t *testing.T) {
	s := store.New()
	ben, _ := s.Create(member.Fields{Name: member.String("Ben Roberson"), Location: member.String("Boston")})
	_, _ = s.Create(member.Fields{Name: member.String("Robert Smith"), Father: member.Ref(ben)})

	got := memberTable(s, s.List(), 0)
	for _, want := range []string{"ID", "Name", "Parents", "Ben Roberson", "Boston", "Robert Smith"} {
		if !strings.Contains(got, want) {
			t.Errorf("memberTable() missing %q:\n%s", want, got)
		}
	}
	// Robert's parents column names Ben.
	lines := strings.Split(got, "\n")
	for _, l := range lines {
		if strings.Contains(l, "Robert Smith") && !strings.Contains(l, "Ben Roberson") {
			t.Errorf("Robert's row lacks his father: %q", l)
		}
	}
}
