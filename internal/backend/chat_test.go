package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSendsContract(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")
	resp, err := client.Chat(context.Background(), ChatRequest{
		Query:  "Thời gian làm việc?",
		Mode:   ModeHybrid,
		TopK:   5,
		Alpha:  0.5,
		Model:  "gpt-4o-mini",
		Prompt: "Bạn là trợ lý pháp luật",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.AnswerText("fallback"))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/chat", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]interface{}{
		"query":  "Thời gian làm việc?",
		"mode":   "hybrid",
		"top_k":  float64(5),
		"alpha":  0.5,
		"model":  "gpt-4o-mini",
		"prompt": "Bạn là trợ lý pháp luật",
	}, gotBody)
}

func TestChatCustomPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/ask", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithChatPath("/api/v1/ask"))
	assert.Equal(t, srv.URL+"/api/v1/ask", client.Endpoint())

	_, err := client.Chat(context.Background(), ChatRequest{Query: "x"})
	require.NoError(t, err)
}

func TestChatNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database unavailable", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Chat(context.Background(), ChatRequest{Query: "x"})
	require.Error(t, err)

	se, ok := AsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "database unavailable", se.Body)
}

func TestChatTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Chat(context.Background(), ChatRequest{Query: "x"})
	require.Error(t, err)
	_, ok := AsStatusError(err)
	assert.False(t, ok)
}

func TestChatMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>oops</html>"},
		{name: "empty body", body: ""},
		{name: "null body", body: "null"},
		{name: "sources is an object", body: `{"answer":"a","sources":{"title":"x"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).Chat(context.Background(), ChatRequest{Query: "x"})
			assert.Error(t, err)
		})
	}
}

func TestAnswerText(t *testing.T) {
	const fallback = "Không có phản hồi từ server."

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string answer", body: `{"answer":"Điều 5 quy định..."}`, want: "Điều 5 quy định..."},
		{name: "missing answer", body: `{}`, want: fallback},
		{name: "null answer", body: `{"answer":null}`, want: fallback},
		{name: "empty answer", body: `{"answer":""}`, want: fallback},
		{name: "false answer", body: `{"answer":false}`, want: fallback},
		{name: "numeric answer", body: `{"answer":42}`, want: "42"},
		{
			name: "object answer is unescaped",
			body: `{"answer":{"dieu":"\u0110i\u1ec1u 5","items":[1, 2.5, true, null]}}`,
			want: `{"dieu":"Điều 5","items":[1,2.5,true,null]}`,
		},
		{name: "array body", body: `[1,2]`, want: fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := decodeChatResponse([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.AnswerText(fallback))
		})
	}
}

func TestSourceLabels(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "titles",
			body: `{"sources":[{"title":"Luật Doanh nghiệp 2020"},{"title":"Bộ luật Lao động 2019","page":3}]}`,
			want: []string{"Luật Doanh nghiệp 2020", "Bộ luật Lao động 2019"},
		},
		{
			name: "no title falls back to json",
			body: `{"sources":[{"file": "nd-145.pdf", "page": 12}]}`,
			want: []string{`{"file":"nd-145.pdf","page":12}`},
		},
		{
			name: "escaped source without title is shown unescaped",
			body: `{"sources":[{"file":"Lu\u1eadt Doanh nghi\u1ec7p.pdf","page":3}]}`,
			want: []string{`{"file":"Luật Doanh nghiệp.pdf","page":3}`},
		},
		{
			name: "key order and html characters kept",
			body: `{"sources":[{"z":"a<b>&c","a":{"y":[],"x":{}}}]}`,
			want: []string{`{"z":"a<b>&c","a":{"y":[],"x":{}}}`},
		},
		{
			name: "empty title falls back to json",
			body: `{"sources":[{"title":"","id":7}]}`,
			want: []string{`{"title":"","id":7}`},
		},
		{
			name: "numeric title",
			body: `{"sources":[{"title":2020}]}`,
			want: []string{"2020"},
		},
		{
			name: "bare string source is quoted",
			body: `{"sources":["Hiến pháp 2013"]}`,
			want: []string{`"Hiến pháp 2013"`},
		},
		{
			name: "absent sources",
			body: `{"answer":"a"}`,
			want: []string{},
		},
		{
			name: "null sources",
			body: `{"answer":"a","sources":null}`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := decodeChatResponse([]byte(tt.body))
			require.NoError(t, err)

			labels, err := resp.SourceLabels()
			require.NoError(t, err)
			assert.Equal(t, tt.want, labels)
		})
	}
}

func TestSourceLabelsRejectsNullEntry(t *testing.T) {
	resp, err := decodeChatResponse([]byte(`{"answer":"a","sources":[{"title":"x"},null]}`))
	require.NoError(t, err)

	_, err = resp.SourceLabels()
	assert.Error(t, err)
}

func TestSourceLabelTruncatesSerializedSources(t *testing.T) {
	long := `{"content":"` + strings.Repeat("điều khoản ", 40) + `"}`

	label := SourceLabel(json.RawMessage(long))
	assert.Equal(t, MaxLabelRunes, utf8.RuneCountInString(label))
	assert.True(t, strings.HasSuffix(label, "…"))

	title := strings.Repeat("Nghị định ", 30)
	assert.Equal(t, title, SourceLabel(json.RawMessage(`{"title":"`+title+`"}`)))
}
