package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/headsync/internal/config"
	"github.com/tacogips/headsync/internal/repo/download"
	"github.com/tacogips/headsync/internal/repo/forge"
	"github.com/tacogips/headsync/internal/repo/head"
)

const testHead = "eb4dc314435649737ad343ef82240b96256d5eb8"

type fakeRunner struct {
	stdout string
	err    error
	calls  atomic.Int32
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls.Add(1)
	return []byte(f.stdout), nil, f.err
}

// fakeGitea serves a tiny repository: a.txt, sub/b.txt and sub/deeper/c.txt.
type fakeGitea struct {
	srv      *httptest.Server
	requests atomic.Int32
	listing  map[string]string
	files    map[string]string
}

func newFakeGitea(t *testing.T) *fakeGitea {
	t.Helper()

	g := &fakeGitea{
		listing: map[string]string{
			"":           `[{"name":"a.txt","type":"file"},{"name":"sub","type":"dir"}]`,
			"sub":        `[{"name":"b.txt","type":"file"},{"name":"deeper","type":"dir"}]`,
			"sub/deeper": `[{"name":"c.txt","type":"file"}]`,
		},
		files: map[string]string{
			"a.txt":            "alpha\n",
			"sub/b.txt":        "bravo\n",
			"sub/deeper/c.txt": "charlie\n",
		},
	}

	const apiPrefix = "/api/v1/repos/radium/project-configuration/contents"
	rawPrefix := "/radium/project-configuration/raw/commit/" + testHead + "/"

	g.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.requests.Add(1)
		switch {
		case strings.HasPrefix(r.URL.Path, apiPrefix):
			dir := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, apiPrefix), "/")
			body, ok := g.listing[dir]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message":"not found"}`)
				return
			}
			fmt.Fprint(w, body)
		case strings.HasPrefix(r.URL.Path, rawPrefix):
			body, ok := g.files[strings.TrimPrefix(r.URL.Path, rawPrefix)]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, "Not found.\n")
				return
			}
			fmt.Fprint(w, body)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(g.srv.Close)
	return g
}

func (g *fakeGitea) env(runner *fakeRunner) Env {
	cfg := config.DefaultConfig()
	cfg.BaseURL = g.srv.URL + "/"
	cfg.APIURL = g.srv.URL + "/api/v1/repos/"
	return Env{
		Config: cfg,
		Runner: runner,
		Fs:     afero.NewMemMapFs(),
	}
}

func headRunner() *fakeRunner {
	return &fakeRunner{stdout: testHead + "\tHEAD\n" + testHead + "\trefs/heads/master\n"}
}

func TestDownload(t *testing.T) {
	g := newFakeGitea(t)
	env := g.env(headRunner())

	result, err := Download(context.Background(), DownloadOptions{
		Env:         env,
		Repository:  "radium/project-configuration",
		Destination: "/out",
		Concurrency: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "radium/project-configuration", result.Repository)
	assert.Equal(t, testHead, result.Head)
	assert.Equal(t, []string{"a.txt", "sub/b.txt", "sub/deeper/c.txt"}, result.Files)
	assert.Equal(t, 2, result.Directories)
	assert.Equal(t, []int{2, 1}, result.Batches)
	assert.Equal(t, int64(len("alpha\nbravo\ncharlie\n")), result.Bytes)
	assert.Equal(t, filepath.Join("/out", "SHA256"), result.ManifestPath)
	assert.NotEmpty(t, result.Digest)

	content, err := afero.ReadFile(env.Fs, "/out/sub/deeper/c.txt")
	require.NoError(t, err)
	assert.Equal(t, "charlie\n", string(content))

	data, err := afero.ReadFile(env.Fs, result.ManifestPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, len(result.Files)+1)
	assert.Equal(t, "[SHA256]", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "a.txt______"))
	assert.True(t, strings.HasPrefix(lines[3], "sub/deeper/c.txt______"))
}

func TestDownload_InvalidConcurrencyFailsBeforeNetwork(t *testing.T) {
	for _, n := range []int{-1, -8} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			g := newFakeGitea(t)
			runner := headRunner()

			_, err := Download(context.Background(), DownloadOptions{
				Env:         g.env(runner),
				Repository:  "radium/project-configuration",
				Destination: "/out",
				Concurrency: n,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, download.ErrInvalidConcurrency)

			var appErr *AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, ValidationFailed, appErr.Type)
			assert.Zero(t, g.requests.Load())
			assert.Zero(t, runner.calls.Load())
		})
	}
}

func TestDownload_ZeroConcurrencyFallsBackToConfig(t *testing.T) {
	g := newFakeGitea(t)
	env := g.env(headRunner())
	env.Config.Concurrency = 0

	_, err := Download(context.Background(), DownloadOptions{
		Env:         env,
		Repository:  "radium/project-configuration",
		Destination: "/out",
	})
	assert.ErrorIs(t, err, download.ErrInvalidConcurrency)
	assert.Zero(t, g.requests.Load())
}

func TestDownload_HeadNotFoundIsFatal(t *testing.T) {
	g := newFakeGitea(t)
	env := g.env(&fakeRunner{stdout: testHead + "\trefs/heads/master\n"})

	_, err := Download(context.Background(), DownloadOptions{
		Env:         env,
		Repository:  "radium/project-configuration",
		Destination: "/out",
		Concurrency: 3,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, head.ErrHeadNotFound)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, HeadFailed, appErr.Type)

	exists, _ := afero.Exists(env.Fs, "/out/a.txt")
	assert.False(t, exists, "nothing is downloaded without a HEAD")
}

func TestDownload_MalformedListing(t *testing.T) {
	g := newFakeGitea(t)
	g.listing["sub"] = `{"message":"GetRepositoryByName"}`

	_, err := Download(context.Background(), DownloadOptions{
		Env:         g.env(headRunner()),
		Repository:  "radium/project-configuration",
		Destination: "/out",
		Concurrency: 3,
	})
	require.Error(t, err)
	assert.True(t, forge.IsType(err, forge.ForgeDecodeFailed), "got %v", err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ListFailed, appErr.Type)
}

func TestDownload_MissingRawFileWrittenVerbatim(t *testing.T) {
	g := newFakeGitea(t)
	delete(g.files, "sub/b.txt")
	env := g.env(headRunner())

	_, err := Download(context.Background(), DownloadOptions{
		Env:         env,
		Repository:  "radium/project-configuration",
		Destination: "/out",
		Concurrency: 1,
	})
	require.NoError(t, err)

	content, err := afero.ReadFile(env.Fs, "/out/sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "Not found.\n", string(content))
}

func TestDownload_StrictMissingRawFile(t *testing.T) {
	g := newFakeGitea(t)
	delete(g.files, "sub/b.txt")
	env := g.env(headRunner())
	env.Config.Download.Strict = true

	_, err := Download(context.Background(), DownloadOptions{
		Env:         env,
		Repository:  "radium/project-configuration",
		Destination: "/out",
		Concurrency: 1,
	})
	require.Error(t, err)
	assert.True(t, forge.IsType(err, forge.ForgeNotFound), "got %v", err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, DownloadFailed, appErr.Type)
}

func TestDownload_Idempotent(t *testing.T) {
	g := newFakeGitea(t)
	env := g.env(headRunner())
	opts := DownloadOptions{
		Env:         env,
		Repository:  "https://gitea.radium.group/radium/project-configuration.git",
		Destination: "/out",
		Concurrency: 3,
	}

	first, err := Download(context.Background(), opts)
	require.NoError(t, err)
	before, err := afero.ReadFile(env.Fs, first.ManifestPath)
	require.NoError(t, err)

	second, err := Download(context.Background(), opts)
	require.NoError(t, err)
	after, err := afero.ReadFile(env.Fs, second.ManifestPath)
	require.NoError(t, err)

	assert.Equal(t, first.Digest, second.Digest)
	assert.Equal(t, before, after)
}

func TestDownload_XXH3Manifest(t *testing.T) {
	g := newFakeGitea(t)
	env := g.env(headRunner())
	env.Config.Manifest.Algorithm = "xxh3"

	result, err := Download(context.Background(), DownloadOptions{
		Env:         env,
		Repository:  "radium/project-configuration",
		Destination: "/out",
		Concurrency: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "xxh3", result.Algorithm)
	assert.Equal(t, filepath.Join("/out", "XXH3"), result.ManifestPath)
}

func TestDownload_InvalidRepository(t *testing.T) {
	g := newFakeGitea(t)

	_, err := Download(context.Background(), DownloadOptions{
		Env:         g.env(headRunner()),
		Repository:  "not a repo",
		Destination: "/out",
		Concurrency: 1,
	})
	require.Error(t, err)
	assert.True(t, forge.IsType(err, forge.ForgeInvalidRepository))
	assert.Zero(t, g.requests.Load())
}

func TestDownload_APIHeadRequiresCapableForge(t *testing.T) {
	g := newFakeGitea(t)
	env := g.env(headRunner())
	env.Config.Head.Source = config.HeadSourceAPI

	_, err := Download(context.Background(), DownloadOptions{
		Env:         env,
		Repository:  "radium/project-configuration",
		Destination: "/out",
		Concurrency: 1,
	})
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ValidationFailed, appErr.Type)
	assert.Zero(t, g.requests.Load())
}

func TestDownload_Callbacks(t *testing.T) {
	g := newFakeGitea(t)
	var listed []string
	var written atomic.Int32

	_, err := Download(context.Background(), DownloadOptions{
		Env:         g.env(headRunner()),
		Repository:  "radium/project-configuration",
		Destination: "/out",
		Concurrency: 3,
		OnListed:    func(files []string) { listed = files },
		OnFile:      func(string, int) { written.Add(1) },
	})
	require.NoError(t, err)
	assert.Len(t, listed, 3)
	assert.Equal(t, int32(3), written.Load())
}

func TestList(t *testing.T) {
	g := newFakeGitea(t)

	listing, err := List(context.Background(), ListOptions{
		Env:        g.env(nil),
		Repository: "radium/project-configuration",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "sub/b.txt", "sub/deeper/c.txt"}, listing.Files)
	assert.Equal(t, []string{"sub", "sub/deeper"}, listing.Dirs)

	sub, err := List(context.Background(), ListOptions{
		Env:        g.env(nil),
		Repository: "radium/project-configuration",
		Path:       "/sub/",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/b.txt", "sub/deeper/c.txt"}, sub.Files)
}

func TestResolveHead(t *testing.T) {
	g := newFakeGitea(t)

	ref, err := ResolveHead(context.Background(), HeadOptions{
		Env:        g.env(headRunner()),
		Repository: "radium/project-configuration",
	})
	require.NoError(t, err)
	assert.Equal(t, testHead, ref.String())

	_, err = ResolveHead(context.Background(), HeadOptions{
		Env:        g.env(&fakeRunner{err: errors.New("exit status 128")}),
		Repository: "radium/project-configuration",
	})
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, HeadFailed, appErr.Type)
}

func TestVerify(t *testing.T) {
	g := newFakeGitea(t)
	env := g.env(headRunner())

	_, err := Download(context.Background(), DownloadOptions{
		Env:         env,
		Repository:  "radium/project-configuration",
		Destination: "/out",
		Concurrency: 2,
	})
	require.NoError(t, err)

	result, err := Verify(VerifyOptions{Env: env, Destination: "/out"})
	require.NoError(t, err)
	assert.True(t, result.Clean())
	assert.Len(t, result.OK, 3)
	assert.Equal(t, "sha256", result.Algorithm)

	require.NoError(t, afero.WriteFile(env.Fs, "/out/a.txt", []byte("changed"), 0644))
	require.NoError(t, env.Fs.Remove("/out/sub/b.txt"))

	result, err = Verify(VerifyOptions{Env: env, Destination: "/out"})
	require.NoError(t, err)
	assert.False(t, result.Clean())
	assert.Equal(t, []string{"a.txt"}, result.Mismatched)
	assert.Equal(t, []string{"sub/b.txt"}, result.Missing)
}

func TestVerify_MissingManifest(t *testing.T) {
	env := Env{Fs: afero.NewMemMapFs()}

	_, err := Verify(VerifyOptions{Env: env, Destination: "/nowhere"})
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, VerifyFailed, appErr.Type)
}
