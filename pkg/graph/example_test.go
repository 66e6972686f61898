package graph_test

import (
	"fmt"
	"os"

	"github.com/matzehuels/familytree/pkg/graph"
	"github.com/matzehuels/familytree/pkg/member"
	"github.com/matzehuels/familytree/pkg/store"
)

func ExampleProject() {
	s := store.New()
	ben, _ := s.Create(member.Fields{Name: member.String("Ben Roberson"), Age: member.Number(65), Gender: member.String("male")})
	brooke, _ := s.Create(member.Fields{Name: member.String("Brooke Roberson"), Gender: member.String("female"), Spouses: member.Refs(ben)})
	_, _ = s.Commit(ben, member.Fields{Spouses: member.Refs(brooke)})
	_, _ = s.Create(member.Fields{Name: member.String("Robert Smith"), Father: member.Ref(ben), Mother: member.Ref(brooke)})

	d := graph.Project(s, graph.Options{ShowAge: true})
	for _, n := range d.Nodes {
		fmt.Printf("%d %s %q\n", n.ID, n.Color, n.Label)
	}
	for _, e := range d.Edges {
		fmt.Printf("%d -> %d %s %s\n", e.From, e.To, e.Kind, e.Style)
	}
	// Output:
	// 1 lightblue "Ben Roberson\nAge: 65"
	// 2 pink "Brooke Roberson"
	// 3 lightgray "Robert Smith"
	// 1 -> 3 parent solid
	// 2 -> 3 parent solid
	// 1 -> 2 spouse dashed
}

func ExampleWrite() {
	s := store.New()
	_, _ = s.Create(member.Fields{Name: member.String("Zorg"), Gender: member.String("alien")})

	_ = graph.Write(graph.Project(s, graph.Options{}), os.Stdout)
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": 1,
	//       "label": "Zorg",
	//       "color": "lightgreen"
	//     }
	//   ],
	//   "edges": []
	// }
}
