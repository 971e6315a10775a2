package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomenotebook/genomenotebook/internal/browser"
)

const testGFF = `##gff-version 3
NC_000913.3	RefSeq	CDS	190	255	.	+	0	ID=cds-thrL;gene=thrL;locus_tag=b0001
NC_000913.3	RefSeq	CDS	337	2799	.	+	0	ID=cds-thrA;gene=thrA;locus_tag=b0002
NC_000913.3	RefSeq	CDS	5683	6459	.	-	0	ID=cds-yaaA;gene=yaaA;locus_tag=b0006
NC_000913.3	RefSeq	tRNA	8000	8076	.	-	.	ID=rna-b0007;locus_tag=b0007
`

func init() {
	gin.SetMode(gin.TestMode)
}

func setupServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "genes.gff"), []byte(testGFF), 0644))

	s := New(browser.DefaultOptions(), WithRoot(dir))
	return s, s.Router()
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, router *gin.Engine) CreateResponse {
	t.Helper()
	pos := 1000
	w := do(t, router, http.MethodPost, "/sessions", CreateRequest{GFFPath: "genes.gff", Position: &pos, Window: 1000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp CreateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateSession(t *testing.T) {
	s, router := setupServer(t)
	resp := createSession(t, router)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "NC_000913.3", resp.Frame.SeqID)
	assert.Equal(t, 1000, resp.Frame.Viewport.Width())
	require.NotEmpty(t, resp.Frame.Tracks)
	assert.Len(t, resp.Frame.Tracks[0].Rows, 4)
	assert.Contains(t, resp.Frame.Completions, "thrA")
}

func TestCreateSession_Errors(t *testing.T) {
	_, router := setupServer(t)

	w := do(t, router, http.MethodPost, "/sessions", CreateRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "no source")

	w = do(t, router, http.MethodPost, "/sessions", CreateRequest{GFFPath: "../outside.gff"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "path escapes root")
	assert.Contains(t, w.Body.String(), "outside server root")
}

func TestSessionNotFound(t *testing.T) {
	_, router := setupServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/sessions/missing", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/sessions/missing/pan", PanRequest{Delta: 10}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/sessions/missing", nil).Code)
}

func TestViewportEvents(t *testing.T) {
	_, router := setupServer(t)
	id := createSession(t, router).ID

	w := do(t, router, http.MethodPost, "/sessions/"+id+"/viewport", RangeRequest{Start: 2000, End: 3000})
	require.Equal(t, http.StatusOK, w.Code)
	var u browser.Update
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.True(t, u.Moved)
	assert.Equal(t, 2000, u.Viewport.Start)
	assert.Equal(t, 3000, u.Viewport.End)
	assert.False(t, u.Republished, "loaded range covers the whole sequence")

	w = do(t, router, http.MethodPost, "/sessions/"+id+"/pan", PanRequest{Delta: 500})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, 2500, u.Viewport.Start)

	w = do(t, router, http.MethodPost, "/sessions/"+id+"/zoom", ZoomRequest{Factor: 0.5})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, 500, u.Viewport.Width())
	assert.Equal(t, 3000.0, u.Viewport.Center())

	w = do(t, router, http.MethodPost, "/sessions/"+id+"/zoom", ZoomRequest{Factor: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/sessions/"+id+"/navigate", NavigateRequest{Position: 6000})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, 6000.0, u.Viewport.Center())

	w = do(t, router, http.MethodGet, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var f browser.Frame
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &f))
	assert.Equal(t, u.Viewport, f.Viewport)
}

func TestSearchAndCycle(t *testing.T) {
	_, router := setupServer(t)
	id := createSession(t, router).ID

	w := do(t, router, http.MethodPost, "/sessions/"+id+"/search", SearchRequest{Query: "thr"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 2)
	require.NotNil(t, resp.Update.Match)
	assert.Equal(t, "thrL", resp.Update.Match.Name)

	w = do(t, router, http.MethodPost, "/sessions/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var u browser.Update
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	require.NotNil(t, u.Match)
	assert.Equal(t, "thrA", u.Match.Name)

	w = do(t, router, http.MethodPost, "/sessions/"+id+"/next", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, "thrL", u.Match.Name, "wraps around")

	w = do(t, router, http.MethodPost, "/sessions/"+id+"/previous", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, "thrA", u.Match.Name)

	w = do(t, router, http.MethodPost, "/sessions/"+id+"/search", SearchRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "query is required")
}

func TestHighlightAndTooltip(t *testing.T) {
	_, router := setupServer(t)
	id := createSession(t, router).ID

	w := do(t, router, http.MethodPost, "/sessions/"+id+"/highlight", HighlightRequest{
		Regions: []browser.Region{{Left: 100, Right: 400}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var f browser.Frame
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &f))
	require.Len(t, f.Tracks[0].Highlights, 1)
	assert.Equal(t, "green", f.Tracks[0].Highlights[0].Color)
	assert.Equal(t, defaultHighlightAlpha, f.Tracks[0].Highlights[0].Alpha)

	w = do(t, router, http.MethodPost, "/sessions/"+id+"/tooltip", TooltipRequest{
		Name: "score", Values: []string{"1", "2", "3"}, FeatureType: "CDS",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &f))
	assert.Contains(t, f.Tracks[0].Rows[0].Tooltip, "<b>score:</b> 1")

	w = do(t, router, http.MethodPost, "/sessions/"+id+"/tooltip", TooltipRequest{
		Name: "score", Values: []string{"1"}, FeatureType: "CDS",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "value count mismatch")
}

func TestDeleteAndSweep(t *testing.T) {
	s, router := setupServer(t)
	first := createSession(t, router).ID
	createSession(t, router)
	require.Equal(t, 2, s.Len())

	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/sessions/"+first, nil).Code)
	assert.Equal(t, 1, s.Len())

	later := time.Now().Add(2 * DefaultSessionTTL)
	s.now = func() time.Time { return later }
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 0, s.Len())
}

func TestResolve(t *testing.T) {
	s := New(browser.DefaultOptions(), WithRoot("/data"))

	p, err := s.resolve("genes.gff")
	require.NoError(t, err)
	assert.Equal(t, "/data/genes.gff", p)

	p, err = s.resolve("/data/sub/genes.gff")
	require.NoError(t, err)
	assert.Equal(t, "/data/sub/genes.gff", p)

	_, err = s.resolve("/etc/passwd")
	assert.Error(t, err)

	open := New(browser.DefaultOptions())
	p, err = open.resolve("/etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "/etc/passwd", p)
}

