package head

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/headsync/internal/repo/forge"
	"github.com/tacogips/headsync/internal/repo/model"
)

const lsRemoteOutput = "eb4dc314435649737ad343ef82240b96256d5eb8\tHEAD\n" +
	"eb4dc314435649737ad343ef82240b96256d5eb8\trefs/heads/master\n" +
	"1111111111111111111111111111111111111111\trefs/tags/v1.0.0\n"

type fakeRunner struct {
	stdout, stderr string
	err            error
	gotName        string
	gotArgs        []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.gotName = name
	f.gotArgs = args
	return []byte(f.stdout), []byte(f.stderr), f.err
}

type fakeHeadForge struct {
	ref model.HeadRef
	err error
}

func (f fakeHeadForge) ResolveHead(ctx context.Context, repo model.RepositoryRef) (model.HeadRef, error) {
	return f.ref, f.err
}

var repo = model.RepositoryRef{Owner: "radium", Name: "project-configuration"}

func newResolver(runner Runner) *LsRemoteResolver {
	g := forge.NewGiteaClient(model.DefaultBaseURL, model.DefaultAPIURL, 0)
	r := NewLsRemoteResolver("", g)
	r.Runner = runner
	return r
}

func TestParseLsRemote(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   model.HeadRef
		ok     bool
	}{
		{name: "head first", output: lsRemoteOutput, want: "eb4dc314435649737ad343ef82240b96256d5eb8", ok: true},
		{name: "head later", output: "aaa\trefs/heads/main\nbbb\tHEAD\n", want: "bbb", ok: true},
		{name: "crlf", output: "ccc\tHEAD\r\n", want: "ccc", ok: true},
		{name: "ref containing HEAD is not HEAD", output: "ddd\trefs/heads/HEAD-fix\n", ok: false},
		{name: "empty", output: "", ok: false},
		{name: "garbage", output: "fatal: nothing here\n", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLsRemote([]byte(tt.output))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLsRemoteResolver_Resolve(t *testing.T) {
	runner := &fakeRunner{stdout: lsRemoteOutput}
	r := newResolver(runner)

	got, err := r.Resolve(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, model.HeadRef("eb4dc314435649737ad343ef82240b96256d5eb8"), got)
	assert.Equal(t, "git", runner.gotName)
	assert.Equal(t, []string{"ls-remote", "https://gitea.radium.group/radium/project-configuration.git"}, runner.gotArgs)
}

func TestLsRemoteResolver_NoHeadIsFatal(t *testing.T) {
	r := newResolver(&fakeRunner{stdout: "aaa\trefs/heads/main\n"})

	_, err := r.Resolve(context.Background(), repo)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHeadNotFound)
}

func TestLsRemoteResolver_CommandFailure(t *testing.T) {
	cause := errors.New("exit status 128")
	r := newResolver(&fakeRunner{stderr: "fatal: repository not found\n", err: cause})

	_, err := r.Resolve(context.Background(), model.RepositoryRef{Owner: "x", Name: "incorrectname"})
	require.Error(t, err)

	var he *HeadError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, HeadCommandFailed, he.Type)
	assert.Equal(t, "fatal: repository not found", he.Stderr)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrHeadNotFound)
}

func TestLsRemoteResolver_CustomBinary(t *testing.T) {
	runner := &fakeRunner{stdout: lsRemoteOutput}
	r := newResolver(runner)
	r.GitBinary = "/usr/local/bin/git"

	_, err := r.Resolve(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/git", runner.gotName)
}

func TestAPIResolver_Resolve(t *testing.T) {
	r := &APIResolver{Forge: fakeHeadForge{ref: "abc"}}
	got, err := r.Resolve(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, model.HeadRef("abc"), got)

	r = &APIResolver{Forge: fakeHeadForge{}}
	_, err = r.Resolve(context.Background(), repo)
	assert.ErrorIs(t, err, ErrHeadNotFound)

	r = &APIResolver{Forge: fakeHeadForge{err: errors.New("503")}}
	_, err = r.Resolve(context.Background(), repo)
	var he *HeadError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, HeadCommandFailed, he.Type)
}
