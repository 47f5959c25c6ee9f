package exporter_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-exporter/internal/builder"
	"github.com/rezonia/invoice-exporter/internal/exporter"
	"github.com/rezonia/invoice-exporter/internal/model"
	"github.com/rezonia/invoice-exporter/internal/postbin"
	"github.com/rezonia/invoice-exporter/internal/rossum"
)

const (
	testBaseURL = "https://acme.rossum.app/api/v1/"
	testBinURL  = "https://www.postb.in/api/bin/1700000000000-1234567890123"
)

func readTestFile(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	require.NoError(t, err)
	return data
}

type fakeDocs struct {
	loginErr  error
	export    []byte
	exportErr error

	calls   []string
	queueID int64
	token   string
}

func (f *fakeDocs) Login(context.Context) (string, error) {
	f.calls = append(f.calls, "login")
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "fake_api_key", nil
}

func (f *fakeDocs) ExportAnnotations(_ context.Context, token string, queueID int64) ([]byte, error) {
	f.calls = append(f.calls, "export")
	f.token = token
	f.queueID = queueID
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return f.export, nil
}

type fakeRelay struct {
	createErr error
	postErr   error

	calls   []string
	postURL string
	payload any
}

func (f *fakeRelay) CreateBin(context.Context) (string, error) {
	f.calls = append(f.calls, "create")
	if f.createErr != nil {
		return "", f.createErr
	}
	return testBinURL, nil
}

func (f *fakeRelay) PostJSON(_ context.Context, url string, payload any) (*postbin.PostResult, error) {
	f.calls = append(f.calls, "post")
	f.postURL = url
	f.payload = payload
	if f.postErr != nil {
		return nil, f.postErr
	}
	return &postbin.PostResult{StatusCode: http.StatusOK, ResponseText: `{"msg":"ok"}`}, nil
}

type recordingObserver struct {
	kinds []string
}

func (o *recordingObserver) ObserveExport(kind string, _ time.Duration) {
	o.kinds = append(o.kinds, kind)
}

func TestExport_Success(t *testing.T) {
	docs := &fakeDocs{export: readTestFile(t, "export.xml")}
	relay := &fakeRelay{}
	obs := &recordingObserver{}

	result := exporter.New(docs, relay, testBaseURL, exporter.WithObserver(obs)).Export(t.Context(), 123, 3427896)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, "https://www.postb.in/b/1700000000000-1234567890123", result.BinURL)
	assert.Empty(t, result.Error)

	assert.Equal(t, []string{"login", "export"}, docs.calls)
	assert.Equal(t, "fake_api_key", docs.token)
	assert.EqualValues(t, 123, docs.queueID)
	assert.Equal(t, []string{"create", "post"}, relay.calls)
	assert.Equal(t, "https://www.postb.in/1700000000000-1234567890123", relay.postURL)

	payload, ok := relay.payload.(exporter.Payload)
	require.True(t, ok)
	assert.EqualValues(t, 3427896, payload.AnnotationID)

	decoded, err := builder.DecodeBase64(payload.Content)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(string(readTestFile(t, "output.xml"))), decoded)

	assert.Equal(t, []string{""}, obs.kinds)
}

func TestExport_Failures(t *testing.T) {
	conflict := `<export><results>` +
		`<annotation url="https://acme.rossum.app/api/v1/annotations/7"/>` +
		`<annotation url="https://acme.rossum.app/api/v1/annotations/7"/>` +
		`</results><pagination><total>2</total></pagination></export>`

	tests := []struct {
		name         string
		docs         *fakeDocs
		relay        *fakeRelay
		annotationID int64
		wantErr      string
		wantKind     model.ErrorKind
		wantDocs     []string
		wantRelay    []string
	}{
		{
			name:         "authentication rejected",
			docs:         &fakeDocs{loginErr: model.NewAuthError(401, "Rossum authentication failed")},
			relay:        &fakeRelay{},
			annotationID: 3427896,
			wantErr:      "401: Rossum authentication failed",
			wantKind:     model.KindAuthenticationFailed,
			wantDocs:     []string{"login"},
		},
		{
			name:         "unknown queue",
			docs:         &fakeDocs{exportErr: model.NewNotFoundError("Queue id not found, available queues: 123, 456")},
			relay:        &fakeRelay{},
			annotationID: 3427896,
			wantErr:      "404: Queue id not found, available queues: 123, 456",
			wantKind:     model.KindNotFound,
			wantDocs:     []string{"login", "export"},
		},
		{
			name:         "unknown annotation",
			docs:         &fakeDocs{export: readTestFile(t, "export.xml")},
			relay:        &fakeRelay{},
			annotationID: 1,
			wantErr:      "404: Annotation id not found, available annotations: 3427896, 3427891",
			wantKind:     model.KindNotFound,
			wantDocs:     []string{"login", "export"},
		},
		{
			name:         "ambiguous annotation",
			docs:         &fakeDocs{export: []byte(conflict)},
			relay:        &fakeRelay{},
			annotationID: 7,
			wantErr:      "400: Expected exactly one annotation to match the target ID, but found 2",
			wantKind:     model.KindConflict,
			wantDocs:     []string{"login", "export"},
		},
		{
			name:         "bin not created",
			docs:         &fakeDocs{export: readTestFile(t, "export.xml")},
			relay:        &fakeRelay{createErr: model.NewInternalError("Failed to retrieve bin URL", nil)},
			annotationID: 3427896,
			wantErr:      "500: Failed to retrieve bin URL",
			wantKind:     model.KindInternal,
			wantDocs:     []string{"login", "export"},
			wantRelay:    []string{"create"},
		},
		{
			name:         "post rejected",
			docs:         &fakeDocs{export: readTestFile(t, "export.xml")},
			relay:        &fakeRelay{postErr: model.NewUpstreamError(503, "HTTP error occurred: down", "down")},
			annotationID: 3427896,
			wantErr:      "503: HTTP error occurred: down",
			wantKind:     model.KindUpstreamHTTP,
			wantDocs:     []string{"login", "export"},
			wantRelay:    []string{"create", "post"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			result := exporter.New(tt.docs, tt.relay, testBaseURL, exporter.WithObserver(obs)).
				Export(t.Context(), 123, tt.annotationID)

			assert.False(t, result.Success)
			assert.Empty(t, result.BinURL)
			assert.Equal(t, tt.wantErr, result.Error)
			assert.Equal(t, tt.wantDocs, tt.docs.calls)
			assert.Equal(t, tt.wantRelay, tt.relay.calls)
			assert.Equal(t, []string{string(tt.wantKind)}, obs.kinds)
		})
	}
}

func TestExport_ResultJSON(t *testing.T) {
	ok, err := json.Marshal(exporter.Result{Success: true, BinURL: "https://www.postb.in/b/1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "bin_url": "https://www.postb.in/b/1"}`, string(ok))

	failed, err := json.Marshal(exporter.Result{Error: "404: Queue id not found, available queues: 1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": false, "error": "404: Queue id not found, available queues: 1"}`, string(failed))
}

func TestBinURLs(t *testing.T) {
	assert.Equal(t, "https://www.postb.in/1-2", exporter.SubmissionURL("https://www.postb.in/api/bin/1-2"))
	assert.Equal(t, "https://www.postb.in/b/1-2", exporter.PublicBinURL("https://www.postb.in/api/bin/1-2"))
}

func TestTransform_InvalidAnnotation(t *testing.T) {
	_, err := exporter.Transform("not xml <<")
	require.Error(t, err)
	assert.Equal(t, model.KindInternal, model.KindOf(err))
}

// Runs both real clients against local stand-ins for the two services.
func TestExport_EndToEnd(t *testing.T) {
	exportXML := readTestFile(t, "export.xml")

	var posted exporter.Payload
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"key": "fake_api_key"}`))
	})
	mux.HandleFunc("GET /api/v1/queues/123/export", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token fake_api_key", r.Header.Get("Authorization"))
		assert.Equal(t, "xml", r.URL.Query().Get("format"))
		w.Write(exportXML)
	})
	mux.HandleFunc("POST /api/bin", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"binId": "1700000000000-42"}`))
	})
	mux.HandleFunc("POST /1700000000000-42", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &posted))
		w.Write([]byte(`{"msg": "ok"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	docs := rossum.NewClient(srv.URL+"/api/v1/", "jane@acme.com", "pw")
	relay := postbin.NewClient(srv.URL + "/api/bin")

	// annotation urls in the fixture point at the real tenant
	result := exporter.New(docs, relay, testBaseURL).Export(t.Context(), 123, 3427896)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, srv.URL+"/b/1700000000000-42", result.BinURL)
	assert.EqualValues(t, 3427896, posted.AnnotationID)

	decoded, err := builder.DecodeBase64(posted.Content)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(string(readTestFile(t, "output.xml"))), decoded)
}

func TestExport_MalformedExportIsInternal(t *testing.T) {
	docs := &fakeDocs{export: []byte("not xml <<")}
	relay := &fakeRelay{}

	result := exporter.New(docs, relay, testBaseURL).Export(t.Context(), 123, 3427896)

	assert.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "500: "), result.Error)
	assert.Nil(t, relay.calls)
}
