package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const (
	fixtureOwner = "radium"
	fixtureName  = "project-configuration"
	fixtureHead  = "eb4dc314435649737ad343ef82240b96256d5eb8"
)

// fixtureDir returns the absolute path of a fixture repository.
func fixtureDir(t *testing.T, name string) string {
	t.Helper()

	dir, err := filepath.Abs(filepath.Join("../fixtures/repos", name))
	if err != nil {
		t.Fatalf("failed to get fixture path: %v", err)
	}
	return dir
}

type contentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// fixtureServer serves a fixture directory through Gitea's contents and raw
// endpoints, the way the host would for a repository at fixtureHead.
type fixtureServer struct {
	*httptest.Server
	root     string
	listings atomic.Int32
	raws     atomic.Int32
}

func serveFixture(t *testing.T, root string) *fixtureServer {
	t.Helper()

	fs := &fixtureServer{root: root}
	apiPrefix := "/api/v1/repos/" + fixtureOwner + "/" + fixtureName + "/contents"
	rawPrefix := "/" + fixtureOwner + "/" + fixtureName + "/raw/commit/" + fixtureHead + "/"

	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, apiPrefix):
			fs.listings.Add(1)
			fs.list(w, strings.Trim(strings.TrimPrefix(r.URL.Path, apiPrefix), "/"))
		case strings.HasPrefix(r.URL.Path, rawPrefix):
			fs.raws.Add(1)
			rel := strings.TrimPrefix(r.URL.Path, rawPrefix)
			data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Not found.\n"))
				return
			}
			w.Write(data)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(fs.Close)
	return fs
}

// list answers a contents request. os.ReadDir sorts by name, which matches
// the host's listing order.
func (fs *fixtureServer) list(w http.ResponseWriter, dir string) {
	entries, err := os.ReadDir(filepath.Join(fs.root, filepath.FromSlash(dir)))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "The target couldn't be found."})
		return
	}

	out := make([]contentEntry, 0, len(entries))
	for _, e := range entries {
		entry := contentEntry{
			Name: e.Name(),
			Path: strings.TrimPrefix(dir+"/"+e.Name(), "/"),
			Type: "file",
		}
		if e.IsDir() {
			entry.Type = "dir"
		} else if info, err := e.Info(); err == nil {
			entry.Size = info.Size()
		}
		out = append(out, entry)
	}
	json.NewEncoder(w).Encode(out)
}

// lsRemote answers git ls-remote with a fixed HEAD.
type lsRemote struct {
	calls atomic.Int32
}

func (l *lsRemote) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	l.calls.Add(1)
	out := fixtureHead + "\tHEAD\n" + fixtureHead + "\trefs/heads/master\n"
	return []byte(out), nil, nil
}
