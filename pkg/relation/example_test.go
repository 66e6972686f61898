package relation_test

import (
	"fmt"

	"github.com/matzehuels/familytree/pkg/member"
	"github.com/matzehuels/familytree/pkg/relation"
	"github.com/matzehuels/familytree/pkg/store"
)

func ExampleNormalize() {
	s := store.New()
	grandpa, _ := s.Create(member.Fields{Name: member.String("Grandpa"), Gender: member.String("male")})
	grandma, _ := s.Create(member.Fields{Name: member.String("Grandma"), Gender: member.String("female")})
	dad, _ := s.Create(member.Fields{Name: member.String("Dad")})

	rep, err := relation.Normalize(s, []relation.Edge{
		{PersonA: grandpa, PersonB: grandma, Kind: "spouse"},
		{PersonA: grandpa, PersonB: dad, Kind: "parent"},
		{PersonA: grandma, PersonB: dad, Kind: "parent"},
		{PersonA: dad, PersonB: grandpa, Kind: "sibling"},
	}, relation.PolicyStrict)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("parents:", rep.Parents, "spouses:", rep.Spouses, "ignored:", rep.IgnoredKinds())

	father, mother, _ := relation.Parents(s, dad)
	fmt.Println(father.Name, "+", mother.Name)
	// Output:
	// parents: 2 spouses: 1 ignored: [sibling]
	// Grandpa + Grandma
}

func ExampleChildren() {
	s := store.New()
	ben, _ := s.Create(member.Fields{Name: member.String("Ben Roberson"), Age: member.Number(65), Gender: member.String("male")})
	_, _ = s.Create(member.Fields{Name: member.String("Robert Smith"), Father: member.Ref(ben)})

	kids, _ := relation.Children(s, ben)
	for _, k := range kids {
		fmt.Println(k.ID, k.Name)
	}
	// Output:
	// 2 Robert Smith
}
