package prompt

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func strPtr(s string) *string { return &s }

func TestQueryResolve(t *testing.T) {
	errTooShort := errors.New("too short")

	tests := []struct {
		name    string
		query   Query
		raw     string
		want    string
		wantErr error
	}{
		{name: "plain", query: Query{Name: "q", CaseSensitive: true}, raw: "Value", want: "Value"},
		{name: "default on empty", query: Query{Name: "q", Default: strPtr("def"), CaseSensitive: true}, raw: "", want: "def"},
		{name: "lowercased", query: Query{Name: "q"}, raw: "NFS", want: "nfs"},
		{name: "valid value case insensitive", query: Query{Name: "q", ValidValues: []string{"Yes", "No"}}, raw: "YES", want: "yes"},
		{name: "valid value case sensitive mismatch", query: Query{Name: "q", ValidValues: []string{"nfs"}, CaseSensitive: true}, raw: "NFS", wantErr: ErrInvalidAnswer},
		{name: "not a valid value", query: Query{Name: "q", ValidValues: []string{"1", "2"}, CaseSensitive: true}, raw: "3", wantErr: ErrInvalidAnswer},
		{name: "validator error wrapped", query: Query{Name: "q", CaseSensitive: true, Validate: func(s string) error {
			if len(s) < 3 {
				return errTooShort
			}
			return nil
		}}, raw: "ab", wantErr: errTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query.Resolve(tt.raw)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnswers_QueryString(t *testing.T) {
	ctx := context.Background()
	a := NewAnswers(map[string]string{"domain": "ISCSI", "port": "x"}, nil, testLogger())

	got, err := a.QueryString(ctx, Query{Name: "domain", ValidValues: []string{"nfs", "iscsi"}})
	require.NoError(t, err)
	assert.Equal(t, "iscsi", got)

	got, err = a.QueryString(ctx, Query{Name: "missing", Default: strPtr("1"), CaseSensitive: true})
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	_, err = a.QueryString(ctx, Query{Name: "missing"})
	assert.ErrorIs(t, err, ErrNoAnswer)

	_, err = a.QueryString(ctx, Query{Name: "port", Validate: func(string) error { return errors.New("bad port") }})
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestAnswers_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := NewAnswers(map[string]string{"q": "v"}, nil, testLogger())
	_, err := a.QueryString(ctx, Query{Name: "q"})
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingPrompter struct {
	asked []string
	notes []string
}

func (r *recordingPrompter) QueryString(_ context.Context, q Query) (string, error) {
	r.asked = append(r.asked, q.Name)
	return "from-fallback", nil
}

func (r *recordingPrompter) Note(text string) { r.notes = append(r.notes, text) }

func TestAnswers_Fallback(t *testing.T) {
	fb := &recordingPrompter{}
	a := NewAnswers(map[string]string{"known": "k"}, fb, testLogger())

	got, err := a.QueryString(context.Background(), Query{Name: "known", CaseSensitive: true})
	require.NoError(t, err)
	assert.Equal(t, "k", got)

	got, err = a.QueryString(context.Background(), Query{Name: "unknown", Default: strPtr("d")})
	require.NoError(t, err)
	assert.Equal(t, "from-fallback", got)
	assert.Equal(t, []string{"unknown"}, fb.asked)

	a.Note("hello")
	assert.Equal(t, []string{"hello"}, fb.notes)
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()

	ok, err := Confirm(ctx, NewAnswers(map[string]string{"c": "yes"}, nil, testLogger()), "c", "Sure?", false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Confirm(ctx, NewAnswers(map[string]string{"c": "NO"}, nil, testLogger()), "c", "Sure?", true)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Confirm(ctx, NewAnswers(nil, nil, testLogger()), "c", "Sure?", true)
	require.NoError(t, err)
	assert.True(t, ok, "default applies")

	_, err = Confirm(ctx, NewAnswers(map[string]string{"c": "maybe"}, nil, testLogger()), "c", "Sure?", true)
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestLoadAnswers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage_domain_type: nfs\nstorage_lun: \"2\"\n"), 0600))

	values, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Equal(t, "nfs", values["storage_domain_type"])
	assert.Equal(t, "2", values["storage_lun"])

	_, err = LoadAnswers(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- a\n- b\n"), 0600))
	_, err = LoadAnswers(bad)
	assert.Error(t, err)
}

func TestTerminal_NoteOnPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	var out strings.Builder
	term := NewTerminal(r, &out)
	assert.True(t, term.accessible, "pipes are not terminals")

	term.Note("The following targets have been found:")
	assert.Contains(t, out.String(), "The following targets have been found:")
}

func TestUnattended(t *testing.T) {
	fallback := &recordingPrompter{}
	scripted := NewAnswers(map[string]string{"storage_domain_type": "fc"}, fallback, testLogger())

	p := Unattended(scripted, testLogger())

	got, err := p.QueryString(context.Background(), Query{Name: "storage_domain_type", ValidValues: []string{"fc", "nfs"}})
	require.NoError(t, err)
	assert.Equal(t, "fc", got)

	got, err = p.QueryString(context.Background(), Query{Name: "iscsi_port", Default: strPtr("3260")})
	require.NoError(t, err)
	assert.Equal(t, "3260", got)

	_, err = p.QueryString(context.Background(), Query{Name: "connection"})
	assert.ErrorIs(t, err, ErrNoAnswer)
	assert.Empty(t, fallback.asked, "unattended prompter must not reach the fallback")

	plain := Unattended(fallback, testLogger())
	_, err = plain.QueryString(context.Background(), Query{Name: "connection"})
	assert.ErrorIs(t, err, ErrNoAnswer)
}

func TestReachesOperator(t *testing.T) {
	operator := &recordingPrompter{}
	q := Query{Name: "nfs_path"}

	assert.True(t, ReachesOperator(operator, q))
	assert.False(t, ReachesOperator(NewAnswers(map[string]string{"nfs_path": "/e"}, operator, testLogger()), q))
	assert.True(t, ReachesOperator(NewAnswers(map[string]string{"other": "x"}, operator, testLogger()), q))
	assert.False(t, ReachesOperator(NewAnswers(nil, nil, testLogger()), q))
	assert.False(t, ReachesOperator(Unattended(operator, testLogger()), q))

	nested := NewAnswers(nil, NewAnswers(map[string]string{"nfs_path": "/e"}, operator, testLogger()), testLogger())
	assert.False(t, ReachesOperator(nested, q))
	assert.True(t, ReachesOperator(nested, Query{Name: "mount_options"}))
	assert.Empty(t, operator.asked)
}
