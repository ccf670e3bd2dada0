package likes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const gistAPIBase = "https://api.github.com"

// GistStore keeps the like document as a single file inside a GitHub
// gist. Fetch downloads the whole gist; Save patches the file with the
// full document content.
type GistStore struct {
	token    string
	gistID   string
	filename string
	baseURL  string
	client   *http.Client
}

// NewGistStore returns a store backed by the gist API. filename defaults
// to "likes.json".
func NewGistStore(token, gistID, filename string) *GistStore {
	if filename == "" {
		filename = "likes.json"
	}
	return &GistStore{
		token:    token,
		gistID:   gistID,
		filename: filename,
		baseURL:  gistAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type gistFile struct {
	Content string `json:"content"`
}

type gistDocument struct {
	Files map[string]gistFile `json:"files"`
}

// Fetch downloads the gist and decodes the like file. A missing gist or
// a gist without the file yields an empty document.
func (g *GistStore) Fetch(ctx context.Context) (LikeStore, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/gists/"+g.gistID, nil)
	if err != nil {
		return nil, err
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return LikeStore{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gist fetch returned %d", ErrUnavailable, resp.StatusCode)
	}

	var doc gistDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode gist: %w", err)
	}
	file, ok := doc.Files[g.filename]
	if !ok || file.Content == "" {
		return LikeStore{}, nil
	}

	var all LikeStore
	if err := json.Unmarshal([]byte(file.Content), &all); err != nil {
		return nil, fmt.Errorf("decode like document: %w", err)
	}
	if all == nil {
		all = LikeStore{}
	}
	return all, nil
}

// Save rewrites the like file with the full document.
func (g *GistStore) Save(ctx context.Context, all LikeStore) error {
	content, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	body, err := json.Marshal(map[string]any{
		"files": map[string]any{
			g.filename: map[string]string{"content": string(content)},
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, g.baseURL+"/gists/"+g.gistID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	g.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: gist save returned %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (g *GistStore) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/vnd.github+json")
}

// Close is a no-op; the HTTP client holds no persistent resources.
func (g *GistStore) Close() error {
	return nil
}
