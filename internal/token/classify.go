package token

import "strings"

var classifyOrder = [...]struct {
	table func() *Table
	kind  Kind
}{
	{keywords, Keyword},
	{typeKeywords, KeywordType},
	{functionNames, NameFunction},
}

// Classify returns the category of a bare word.
// Tables are consulted in a fixed order: keywords, then types, then
// built-in functions; a miss is Name.
func Classify(word string) Kind {
	lower := strings.ToLower(word)
	for _, c := range classifyOrder {
		if _, ok := c.table().words[lower]; ok {
			return c.kind
		}
	}
	return Name
}
