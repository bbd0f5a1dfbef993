package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		tags    []string
		summary string
	}{
		{"raw", `{"tags":["Go","HTTP"],"summary":"Starts a server"}`, []string{"Go", "HTTP"}, "Starts a server"},
		{"json fence", "```json\n{\"tags\":[\"React\"],\"summary\":\"A hook\"}\n```", []string{"React"}, "A hook"},
		{"bare fence", "```\n{\"tags\":[\"sql\"],\"summary\":\"Query\"}\n```", []string{"sql"}, "Query"},
		{"prose", `Sure! Here you go: {"tags":["a"," ","b"],"summary":" s "} Hope it helps.`, []string{"a", "b"}, "s"},
		{"no summary", `{"tags":[]}`, []string{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ParseReply(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.tags, res.Tags)
			assert.Equal(t, tc.summary, res.Summary)
		})
	}
}

func TestParseReply_Malformed(t *testing.T) {
	for _, in := range []string{"", "null", "no json here", "{not json}", "```json\n[1,2\n```"} {
		_, err := ParseReply(in)
		assert.ErrorIs(t, err, ErrMalformedReply, "input %q", in)
	}
}

func TestBuildPrompt_IncludesLanguageAndCode(t *testing.T) {
	p := BuildPrompt(Request{Code: "fmt.Println(1)", Language: "Go"})
	assert.Contains(t, p, "Analyze this Go code snippet")
	assert.Contains(t, p, "fmt.Println(1)")
	assert.Contains(t, p, "3-5 relevant tags")
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Enrich(context.Background(), Request{Code: "x"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPEnricher(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("```json\n{\"tags\":[\"python\"],\"summary\":\"Sorts a list\"}\n```"))
	}))
	defer srv.Close()

	e := NewHTTPEnricher(srv.URL, "key", 0)
	res, err := e.Enrich(context.Background(), Request{Code: "sorted(x)", Language: "python"})
	require.NoError(t, err)
	assert.Equal(t, Request{Code: "sorted(x)", Language: "python"}, got)
	assert.Equal(t, []string{"python"}, res.Tags)
	assert.Equal(t, "Sorts a list", res.Summary)
}

func TestHTTPEnricher_Non2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"tags":["x"],"summary":"quota"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPEnricher(srv.URL, "", 0).Enrich(context.Background(), Request{Code: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

type countingEnricher struct {
	calls int
	err   error
}

func (c *countingEnricher) Enrich(context.Context, Request) (Result, error) {
	c.calls++
	if c.err != nil {
		return Result{}, c.err
	}
	return Result{Tags: []string{"t"}, Summary: "s"}, nil
}

func TestCachedEnricher_CachesSuccessOnly(t *testing.T) {
	ctx := context.Background()
	inner := &countingEnricher{}
	c, err := NewCachedEnricher(inner, 8)
	require.NoError(t, err)

	req := Request{Code: "x", Language: "go"}
	first, err := c.Enrich(ctx, req)
	require.NoError(t, err)
	first.Tags[0] = "mutated"
	second, err := c.Enrich(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, []string{"t"}, second.Tags)

	_, _ = c.Enrich(ctx, Request{Code: "x", Language: "rust"})
	assert.Equal(t, 2, inner.calls, "language is part of the key")

	inner.err = errors.New("quota")
	_, err = c.Enrich(ctx, Request{Code: "y", Language: "go"})
	require.Error(t, err)
	_, _ = c.Enrich(ctx, Request{Code: "y", Language: "go"})
	assert.Equal(t, 4, inner.calls)
	assert.Equal(t, 2, c.Len())
}
