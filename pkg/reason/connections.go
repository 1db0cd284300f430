package reason

import (
	"fmt"
	"sort"

	"github.com/corvid-labs/magpie/pkg/common"
)

// Connection strength classifications, strongest first: a direct edge
// beats shared documents, which beat shared neighbors alone.
const (
	StrengthStrong   = "strong"
	StrengthModerate = "moderate"
	StrengthWeak     = "weak"
)

// EntityRef names one endpoint of a connection query.
type EntityRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// DirectRelationship is one edge found between the two queried entities.
type DirectRelationship struct {
	Type       string            `json:"type"`
	Confidence float64           `json:"confidence"`
	Evidence   []common.Evidence `json:"evidence"`
}

// ConnectionResult answers "how is X connected to Y".
type ConnectionResult struct {
	Found             bool                 `json:"found"`
	Message           string               `json:"message,omitempty"`
	Entity1           EntityRef            `json:"entity1,omitempty"`
	Entity2           EntityRef            `json:"entity2,omitempty"`
	Strength          string               `json:"connection_strength,omitempty"`
	Direct            []DirectRelationship `json:"direct_relationships,omitempty"`
	SharedDocuments   []string             `json:"shared_documents,omitempty"`
	CommonConnections []string             `json:"common_connections,omitempty"`
	Summary           string               `json:"summary,omitempty"`
}

// FindConnections reports how two named entities relate: their direct
// edges in either direction, the documents mentioning both, and the
// entities adjacent to both. Results are symmetric in the two names.
func (e *Engine) FindConnections(name1, name2 string) ConnectionResult {
	e1, ok := e.resolveEntity(name1)
	if !ok {
		return ConnectionResult{Found: false, Message: fmt.Sprintf("Entity '%s' not found", name1)}
	}
	e2, ok := e.resolveEntity(name2)
	if !ok {
		return ConnectionResult{Found: false, Message: fmt.Sprintf("Entity '%s' not found", name2)}
	}

	var direct []DirectRelationship
	for _, rel := range e.graph.RelationshipsBetween(e1.ID, e2.ID) {
		direct = append(direct, DirectRelationship{
			Type:       rel.RelationType,
			Confidence: rel.Confidence,
			Evidence:   rel.Evidence,
		})
	}

	sharedDocs := sharedDocuments(e1, e2)

	// Neighborhood intersection, sorted so (A,B) and (B,A) agree.
	n1 := e.graph.Neighbors(e1.ID)
	n2 := e.graph.Neighbors(e2.ID)
	var commonConns []string
	for id := range n1 {
		if _, ok := n2[id]; !ok {
			continue
		}
		if other, ok := e.graph.Entity(id); ok {
			commonConns = append(commonConns, other.CanonicalName)
		}
	}
	sort.Strings(commonConns)
	if len(commonConns) > 10 {
		commonConns = commonConns[:10]
	}

	strength := StrengthWeak
	switch {
	case len(direct) > 0:
		strength = StrengthStrong
	case len(sharedDocs) > 0:
		strength = StrengthModerate
	}

	return ConnectionResult{
		Found:             true,
		Entity1:           EntityRef{Name: e1.CanonicalName, Type: e1.EntityType},
		Entity2:           EntityRef{Name: e2.CanonicalName, Type: e2.EntityType},
		Strength:          strength,
		Direct:            direct,
		SharedDocuments:   sharedDocs,
		CommonConnections: commonConns,
		Summary:           connectionSummary(e1, e2, direct, sharedDocs, commonConns),
	}
}

// sharedDocuments intersects the two entities' mention document sets,
// returned sorted for symmetry.
func sharedDocuments(e1, e2 common.Entity) []string {
	docs1 := make(map[string]struct{})
	for _, mention := range e1.Mentions {
		docs1[mention.DocumentID] = struct{}{}
	}

	seen := make(map[string]struct{})
	var shared []string
	for _, mention := range e2.Mentions {
		if _, ok := docs1[mention.DocumentID]; !ok {
			continue
		}
		if _, ok := seen[mention.DocumentID]; ok {
			continue
		}
		seen[mention.DocumentID] = struct{}{}
		shared = append(shared, mention.DocumentID)
	}
	sort.Strings(shared)
	return shared
}

func connectionSummary(e1, e2 common.Entity, direct []DirectRelationship, sharedDocs, commonConns []string) string {
	switch {
	case len(direct) > 0:
		return fmt.Sprintf(
			"%s and %s have %d direct relationship(s) and appear together in %d document(s).",
			e1.CanonicalName, e2.CanonicalName, len(direct), len(sharedDocs),
		)
	case len(sharedDocs) > 0:
		return fmt.Sprintf(
			"%s and %s are mentioned in the same %d document(s) but have no direct relationship.",
			e1.CanonicalName, e2.CanonicalName, len(sharedDocs),
		)
	case len(commonConns) > 0:
		return fmt.Sprintf(
			"%s and %s are connected through %d common entities: %s.",
			e1.CanonicalName, e2.CanonicalName, len(commonConns),
			joinCapped(commonConns, 3),
		)
	default:
		return fmt.Sprintf(
			"No clear connection found between %s and %s.",
			e1.CanonicalName, e2.CanonicalName,
		)
	}
}

func joinCapped(names []string, n int) string {
	if len(names) > n {
		names = names[:n]
	}
	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}
