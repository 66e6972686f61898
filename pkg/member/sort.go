package member

import (
	"cmp"
	"slices"
	"strings"
)

// LastName returns the lower-cased last word of the name, or "" for a blank name.
func LastName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return strings.ToLower(parts[len(parts)-1])
}

// FirstName returns the lower-cased first word of the name, or "" for a blank name.
func FirstName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return strings.ToLower(parts[0])
}

// SortByLastName sorts ms in place by last name, then full name, then ID.
func SortByLastName(ms []Member) {
	sortByKey(ms, LastName)
}

// SortByFirstName sorts ms in place by first name, then full name, then ID.
func SortByFirstName(ms []Member) {
	sortByKey(ms, FirstName)
}

func sortByKey(ms []Member, key func(string) string) {
	slices.SortStableFunc(ms, func(a, b Member) int {
		return cmp.Or(
			cmp.Compare(key(a.Name), key(b.Name)),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.ID, b.ID),
		)
	})
}
