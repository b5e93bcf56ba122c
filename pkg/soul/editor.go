package soul

import (
	"regexp"
	"strings"
)

var nextHeadingRE = regexp.MustCompile(`(?m)^## `)

// DefaultDocument returns the seed content for a document that does not
// exist yet: a single title line.
func DefaultDocument(filename string) string {
	return "# " + filename + "\n"
}

// UpsertSection replaces the body of the named "## " section in doc, or
// appends the section when no matching heading exists. Heading matching is
// case-insensitive and the name is taken literally, so names containing
// regex metacharacters work unmodified. Bytes outside the replaced span
// are preserved as-is.
func UpsertSection(doc, name, body string) string {
	headingRE := regexp.MustCompile(`(?mi)^##[ \t]+` + regexp.QuoteMeta(name) + `[ \t]*\r?$`)
	loc := headingRE.FindStringIndex(doc)
	if loc == nil {
		return doc + "\n## " + name + "\n\n" + body + "\n"
	}

	// The section runs from its heading to the next "## " heading, or to
	// the end of the document.
	end := len(doc)
	if next := nextHeadingRE.FindStringIndex(doc[loc[1]:]); next != nil {
		end = loc[1] + next[0]
	}
	return doc[:loc[0]] + "## " + name + "\n\n" + body + "\n" + doc[end:]
}

// SectionNames lists the "## " headings of doc in document order.
func SectionNames(doc string) []string {
	var names []string
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, "## ") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(line, "## "))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
