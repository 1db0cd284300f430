package reason

import (
	"regexp"
	"strings"

	"github.com/corvid-labs/magpie/pkg/docindex"
)

// Answer is the dispatcher's result. Kind names the handler that matched;
// exactly one of the payload fields is set.
type Answer struct {
	Kind       string                  `json:"kind"`
	Query      string                  `json:"query"`
	Entity     *EntityResult           `json:"entity,omitempty"`
	Connection *ConnectionResult       `json:"connection,omitempty"`
	Aggregate  *AggregateResult        `json:"aggregate,omitempty"`
	Search     []docindex.SearchResult `json:"search_results,omitempty"`
}

// questionRule is one (pattern, handler) entry of the dispatch table.
type questionRule struct {
	pattern *regexp.Regexp
	handle  func(e *Engine, question string, match []string) Answer
}

var (
	reQuoted = regexp.MustCompile(`"([^"]+)"`)
	reAbout  = regexp.MustCompile(`about\s+([A-Z][a-zA-Z ]+)`)
)

// questionRules is evaluated in order, first match wins. New question
// shapes are added here, not as branches in AnswerQuestion.
var questionRules = []questionRule{
	{
		pattern: regexp.MustCompile(`(?i)(what do we know about|tell me about)\s+(.+)`),
		handle: func(e *Engine, question string, match []string) Answer {
			name := extractEntityName(question, match[2])
			result := e.QueryEntity(name)
			return Answer{Kind: "entity", Entity: &result}
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)how is\s+(.+?)\s+(?:related|connected)\s+to\s+(.+)`),
		handle: func(e *Engine, question string, match []string) Answer {
			name1 := strings.TrimSpace(match[1])
			name2 := strings.TrimSpace(strings.TrimRight(match[2], "?"))
			result := e.FindConnections(name1, name2)
			return Answer{Kind: "connection", Connection: &result}
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)list all\s+(\w+)`),
		handle: func(e *Engine, question string, match []string) Answer {
			result := e.AggregateByType(typeForWord(strings.ToLower(match[1])))
			return Answer{Kind: "aggregate", Aggregate: &result}
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)(which documents mention|where is)\s+(.+)`),
		handle: func(e *Engine, question string, match []string) Answer {
			name := extractEntityName(question, match[2])
			result := e.QueryEntity(name)
			return Answer{Kind: "entity", Entity: &result}
		},
	},
}

// typeMap translates question nouns to the extractor's type tags.
var typeMap = map[string]string{
	"person":        "PERSON",
	"people":        "PERSON",
	"organization":  "ORG",
	"organizations": "ORG",
	"company":       "ORG",
	"companies":     "ORG",
	"location":      "LOC",
	"locations":     "LOC",
	"place":         "LOC",
	"places":        "LOC",
	"date":          "DATE",
	"dates":         "DATE",
}

func typeForWord(word string) string {
	if t, ok := typeMap[word]; ok {
		return t
	}
	return strings.ToUpper(word)
}

// extractEntityName pulls an entity name out of a question: quoted text
// wins, then a capitalized "about X" phrase, then the raw tail of the
// matched pattern.
func extractEntityName(question, tail string) string {
	if quoted := reQuoted.FindStringSubmatch(question); quoted != nil {
		return quoted[1]
	}
	if about := reAbout.FindStringSubmatch(question); about != nil {
		return strings.TrimSpace(about[1])
	}
	return strings.TrimSpace(strings.Trim(tail, `?."`))
}

// AnswerQuestion dispatches a free-form question through the rule table.
// Unmatched questions never error: they degrade to full-text document
// search over the corpus.
func (e *Engine) AnswerQuestion(question string) Answer {
	for _, rule := range questionRules {
		if match := rule.pattern.FindStringSubmatch(question); match != nil {
			answer := rule.handle(e, question, match)
			answer.Query = question
			return answer
		}
	}

	return Answer{
		Kind:   "search",
		Query:  question,
		Search: e.docs.FullTextSearch(question, 10),
	}
}
