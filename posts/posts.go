// Package posts serves the published post feed, read from markdown
// files with a frontmatter block.
package posts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Post is one feed entry. PubDate carries the frontmatter value
// verbatim; the parsed time is kept separately for ordering.
type Post struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	PubDate     string   `json:"pubDate"`
	Author      string   `json:"author"`
	Draft       bool     `json:"-"`

	published time.Time
}

// Store reads posts from a directory of <slug>.md files.
type Store struct {
	dir string
}

// NewStore returns a store reading from dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// List returns all non-draft posts ordered by publication date, newest
// first. Files that are not markdown or have broken frontmatter are
// skipped; a missing directory yields an empty feed.
func (s *Store) List() ([]Post, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var posts []Post
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		slug := strings.TrimSuffix(entry.Name(), ".md")
		post, err := parsePost(slug, raw)
		if err != nil {
			continue
		}
		if post.Draft {
			continue
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].published.Equal(posts[j].published) {
			return posts[i].published.After(posts[j].published)
		}
		return posts[i].Slug < posts[j].Slug
	})
	return posts, nil
}

// parsePost reads the frontmatter block between the opening and closing
// "---" lines. Scalar values may be quoted; tags may be an inline
// [a, b] list, a comma list, or an indented dash list.
func parsePost(slug string, raw []byte) (Post, error) {
	lines := strings.Split(string(raw), "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != "---" {
		return Post{}, fmt.Errorf("%s: missing frontmatter", slug)
	}

	post := Post{Slug: slug, Tags: []string{}}
	closed := false
	inTags := false
	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if line == "---" {
			closed = true
			break
		}

		if inTags {
			trimmed := strings.TrimSpace(line)
			if item, ok := strings.CutPrefix(trimmed, "- "); ok {
				post.Tags = append(post.Tags, unquote(strings.TrimSpace(item)))
				continue
			}
			inTags = false
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "title":
			post.Title = unquote(value)
		case "description":
			post.Description = unquote(value)
		case "author":
			post.Author = unquote(value)
		case "pubDate":
			post.PubDate = unquote(value)
		case "draft":
			post.Draft = value == "true"
		case "tags":
			if value == "" {
				inTags = true
			} else {
				post.Tags = splitTags(value)
			}
		}
	}
	if !closed {
		return Post{}, fmt.Errorf("%s: unterminated frontmatter", slug)
	}
	if post.Title == "" {
		return Post{}, fmt.Errorf("%s: missing title", slug)
	}

	post.published = parseDate(post.PubDate)
	return post, nil
}

// splitTags handles both "[go, web]" and bare "go, web".
func splitTags(value string) []string {
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")
	tags := []string{}
	for _, t := range strings.Split(value, ",") {
		t = unquote(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "Jan 2 2006"}

// parseDate tries the common frontmatter date shapes. Unparseable
// dates sort last rather than failing the whole feed.
func parseDate(value string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
