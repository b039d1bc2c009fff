// Package docs bundles the user documentation into the binary so
// `civic docs` works offline and stays in lockstep with the release.
package docs

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

// Topic is one bundled documentation page.
type Topic struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Topics lists the bundled pages, sorted by name. The title comes from
// the page's leading `# ` heading, falling back to the name.
func Topics() []Topic {
	entries, _ := fs.Glob(contentFS, "content/*.md")
	topics := make([]Topic, 0, len(entries))
	for _, path := range entries {
		name := strings.TrimSuffix(strings.TrimPrefix(path, "content/"), ".md")
		if name == "" {
			continue
		}
		body, _ := contentFS.ReadFile(path)
		topics = append(topics, Topic{Name: name, Title: titleOf(string(body), name)})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	return topics
}

// Get returns the raw markdown for a topic. Lookup is case-insensitive.
func Get(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	b, err := contentFS.ReadFile("content/" + name + ".md")
	if err != nil {
		return "", false
	}
	return string(b), true
}

func titleOf(body, fallback string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if t, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(t)
		}
		if line != "" {
			break
		}
	}
	return fallback
}
