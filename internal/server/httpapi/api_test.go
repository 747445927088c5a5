package httpapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/content"
	"github.com/dmitrijs2005/filekeeper/internal/server/services"
	"github.com/dmitrijs2005/filekeeper/internal/server/sessions"
)

const helloWorldB64 = "SGVsbG8gV29ybGQ="

type apiFixture struct {
	router   http.Handler
	sessions *sessions.MemoryStore
	blobs    *content.MemoryStore
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	usersRepo := &fakeUsersRepo{}
	filesRepo := &fakeFilesRepo{}
	sessionStore := sessions.NewMemoryStore()
	blobStore := content.NewMemoryStore()
	logger := logging.NewJSONLogger()

	auth := services.NewAuthService(usersRepo, sessionStore, 86400*time.Second, logger)
	users := services.NewUserService(usersRepo)
	files := services.NewFileService(filesRepo, blobStore, logger)
	status := services.NewStatusService(nil, sessionStore, usersRepo, filesRepo)

	h := NewHandler(auth, users, files, status, logger)
	return &apiFixture{
		router:   h.NewRouter(),
		sessions: sessionStore,
		blobs:    blobStore,
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func basicAuth(email, password string) map[string]string {
	return map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password)),
	}
}

// register + connect, returns the session token.
func (f *apiFixture) signUp(t *testing.T, email, password string) string {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/users", map[string]string{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/connect", nil, basicAuth(email, password))
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (f *apiFixture) upload(t *testing.T, token string, body map[string]any) map[string]any {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/files", body, map[string]string{TokenHeader: token})
	require.Equal(t, http.StatusCreated, rec.Code, "upload body: %s", rec.Body.String())
	return decodeBody(t, rec)
}

func TestRegister(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/users", map[string]string{"email": "bob@dylan.com", "password": "toto1234!"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "bob@dylan.com", body["email"])
	assert.NotEmpty(t, body["id"])
	assert.NotContains(t, body, "password")

	rec = f.do(t, http.MethodPost, "/users", map[string]string{"email": "bob@dylan.com", "password": "other"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Already exists", decodeBody(t, rec)["error"])
}

func TestRegister_MissingFields(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/users", map[string]string{"password": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing email", decodeBody(t, rec)["error"])

	rec = f.do(t, http.MethodPost, "/users", map[string]string{"email": "a@b.c"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing password", decodeBody(t, rec)["error"])

	rec = f.do(t, http.MethodPost, "/users", "not json", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConnectDisconnect(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signUp(t, "bob@dylan.com", "toto1234!")

	rec := f.do(t, http.MethodGet, "/users/me", nil, map[string]string{TokenHeader: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob@dylan.com", decodeBody(t, rec)["email"])

	rec = f.do(t, http.MethodGet, "/disconnect", nil, map[string]string{TokenHeader: token})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	// the token is gone, everything behind it is now 401
	rec = f.do(t, http.MethodGet, "/users/me", nil, map[string]string{TokenHeader: token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/disconnect", nil, map[string]string{TokenHeader: token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decodeBody(t, rec)["error"])
}

func TestConnect_BadCredentials(t *testing.T) {
	f := newAPIFixture(t)
	f.signUp(t, "bob@dylan.com", "toto1234!")

	cases := []struct {
		name    string
		headers map[string]string
	}{
		{"wrong password", basicAuth("bob@dylan.com", "nope")},
		{"unknown user", basicAuth("nobody@dylan.com", "toto1234!")},
		{"no header", nil},
		{"not basic", map[string]string{"Authorization": "Bearer abc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, "/connect", nil, tc.headers)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Unauthorized", decodeBody(t, rec)["error"])
		})
	}
}

func TestProtectedRoutes_RejectMissingToken(t *testing.T) {
	f := newAPIFixture(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/disconnect"},
		{http.MethodPost, "/files"},
		{http.MethodGet, "/files"},
	}
	for _, p := range paths {
		rec := f.do(t, p.method, p.path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
		assert.Equal(t, "Unauthorized", decodeBody(t, rec)["error"])
	}
}

func TestUploadAndDownloadRoundTrip(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signUp(t, "bob@dylan.com", "toto1234!")

	created := f.upload(t, token, map[string]any{
		"name": "myText.txt",
		"type": "file",
		"data": helloWorldB64,
	})
	assert.Equal(t, "myText.txt", created["name"])
	assert.Equal(t, "file", created["type"])
	assert.Equal(t, false, created["isPublic"])
	assert.Equal(t, "0", created["parentId"])

	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	rec := f.do(t, http.MethodGet, "/files/"+id+"/data", nil, map[string]string{TokenHeader: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello World", rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
}

func TestUpload_Validation(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signUp(t, "bob@dylan.com", "toto1234!")

	cases := []struct {
		name string
		body map[string]any
		want string
	}{
		{"missing name", map[string]any{"type": "file", "data": helloWorldB64}, "Missing name"},
		{"missing type", map[string]any{"name": "x.txt", "data": helloWorldB64}, "Missing type"},
		{"bad type", map[string]any{"name": "x.txt", "type": "video", "data": helloWorldB64}, "Missing type"},
		{"missing data", map[string]any{"name": "x.txt", "type": "file"}, "Missing data"},
		{"missing data image", map[string]any{"name": "x.png", "type": "image"}, "Missing data"},
		{"bad base64", map[string]any{"name": "x.txt", "type": "file", "data": "%%%"}, "Invalid data"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/files", tc.body, map[string]string{TokenHeader: token})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, decodeBody(t, rec)["error"])
		})
	}
}

func TestUpload_ParentChecks(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signUp(t, "bob@dylan.com", "toto1234!")

	folder := f.upload(t, token, map[string]any{"name": "images", "type": "folder"})
	folderID, _ := folder["id"].(string)
	leaf := f.upload(t, token, map[string]any{"name": "a.txt", "type": "file", "data": helloWorldB64})
	leafID, _ := leaf["id"].(string)

	// into a folder works, and the response echoes the parent
	nested := f.upload(t, token, map[string]any{
		"name": "b.txt", "type": "file", "data": helloWorldB64, "parentId": folderID,
	})
	assert.Equal(t, folderID, nested["parentId"])

	// unknown parent
	rec := f.do(t, http.MethodPost, "/files", map[string]any{
		"name": "c.txt", "type": "file", "data": helloWorldB64,
		"parentId": "5f1e881cc7ba06511e683b23",
	}, map[string]string{TokenHeader: token})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Parent not found", decodeBody(t, rec)["error"])

	rec = f.do(t, http.MethodPost, "/files", map[string]any{
		"name": "c.txt", "type": "file", "data": helloWorldB64,
		"parentId": "b80c7a38-7f2a-4f3b-9a3f-000000000000",
	}, map[string]string{TokenHeader: token})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Parent not found", decodeBody(t, rec)["error"])

	// parent is a plain file
	rec = f.do(t, http.MethodPost, "/files", map[string]any{
		"name": "c.txt", "type": "file", "data": helloWorldB64, "parentId": leafID,
	}, map[string]string{TokenHeader: token})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Parent is not a folder", decodeBody(t, rec)["error"])
}

func TestUpload_NumericZeroParent(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signUp(t, "bob@dylan.com", "toto1234!")

	rec := f.do(t, http.MethodPost, "/files",
		`{"name":"x.txt","type":"file","data":"`+helloWorldB64+`","parentId":0}`,
		map[string]string{TokenHeader: token, "Content-Type": "application/json"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "0", decodeBody(t, rec)["parentId"])
}

func TestFileGet_OwnerOnly(t *testing.T) {
	f := newAPIFixture(t)
	bob := f.signUp(t, "bob@dylan.com", "toto1234!")
	eve := f.signUp(t, "eve@dylan.com", "s3cret!")

	created := f.upload(t, bob, map[string]any{"name": "x.txt", "type": "file", "data": helloWorldB64})
	id, _ := created["id"].(string)

	rec := f.do(t, http.MethodGet, "/files/"+id, nil, map[string]string{TokenHeader: bob})
	assert.Equal(t, http.StatusOK, rec.Code)

	// someone else's record and a bogus id look the same
	rec = f.do(t, http.MethodGet, "/files/"+id, nil, map[string]string{TokenHeader: eve})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decodeBody(t, rec)["error"])

	rec = f.do(t, http.MethodGet, "/files/not-a-uuid", nil, map[string]string{TokenHeader: bob})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decodeBody(t, rec)["error"])
}

func TestFileList_Pagination(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signUp(t, "bob@dylan.com", "toto1234!")

	for i := 0; i < 25; i++ {
		f.upload(t, token, map[string]any{
			"name": fmt.Sprintf("f-%02d.txt", i), "type": "file", "data": helloWorldB64,
		})
	}

	var listPage = func(query string) []map[string]any {
		rec := f.do(t, http.MethodGet, "/files"+query, nil, map[string]string{TokenHeader: token})
		require.Equal(t, http.StatusOK, rec.Code)
		var out []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	page0 := listPage("")
	require.Len(t, page0, 20)
	assert.Equal(t, "f-00.txt", page0[0]["name"])
	assert.Equal(t, "f-19.txt", page0[19]["name"])

	page1 := listPage("?page=1")
	require.Len(t, page1, 5)
	assert.Equal(t, "f-20.txt", page1[0]["name"])

	assert.Empty(t, listPage("?page=2"))
	assert.Empty(t, listPage("?page=461168601842738791"))
	assert.Len(t, listPage("?page=garbage"), 20)
	assert.Len(t, listPage("?page=-3"), 20)
}

func TestFileList_ParentFilter(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signUp(t, "bob@dylan.com", "toto1234!")

	folder := f.upload(t, token, map[string]any{"name": "docs", "type": "folder"})
	folderID, _ := folder["id"].(string)
	f.upload(t, token, map[string]any{"name": "in.txt", "type": "file", "data": helloWorldB64, "parentId": folderID})
	f.upload(t, token, map[string]any{"name": "out.txt", "type": "file", "data": helloWorldB64})

	rec := f.do(t, http.MethodGet, "/files?parentId="+folderID, nil, map[string]string{TokenHeader: token})
	require.Equal(t, http.StatusOK, rec.Code)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "in.txt", out[0]["name"])

	rec = f.do(t, http.MethodGet, "/files?parentId=not-a-uuid", nil, map[string]string{TokenHeader: token})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid parentId", decodeBody(t, rec)["error"])
}

func TestPublishUnpublishAnonymousAccess(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signUp(t, "bob@dylan.com", "toto1234!")

	created := f.upload(t, token, map[string]any{"name": "x.txt", "type": "file", "data": helloWorldB64})
	id, _ := created["id"].(string)

	// private: anonymous and wrong-token readers both get 404
	rec := f.do(t, http.MethodGet, "/files/"+id+"/data", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodGet, "/files/"+id+"/data", nil, map[string]string{TokenHeader: "bogus"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// the owner can always read it
	rec = f.do(t, http.MethodGet, "/files/"+id+"/data", nil, map[string]string{TokenHeader: token})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/files/"+id+"/publish", nil, map[string]string{TokenHeader: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["isPublic"])

	rec = f.do(t, http.MethodGet, "/files/"+id+"/data", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello World", rec.Body.String())

	rec = f.do(t, http.MethodPut, "/files/"+id+"/unpublish", nil, map[string]string{TokenHeader: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["isPublic"])

	rec = f.do(t, http.MethodGet, "/files/"+id+"/data", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublish_NotOwner(t *testing.T) {
	f := newAPIFixture(t)
	bob := f.signUp(t, "bob@dylan.com", "toto1234!")
	eve := f.signUp(t, "eve@dylan.com", "s3cret!")

	created := f.upload(t, bob, map[string]any{"name": "x.txt", "type": "file", "data": helloWorldB64})
	id, _ := created["id"].(string)

	rec := f.do(t, http.MethodPut, "/files/"+id+"/publish", nil, map[string]string{TokenHeader: eve})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decodeBody(t, rec)["error"])
}

func TestFolderContent(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signUp(t, "bob@dylan.com", "toto1234!")

	folder := f.upload(t, token, map[string]any{"name": "docs", "type": "folder", "isPublic": true})
	id, _ := folder["id"].(string)

	rec := f.do(t, http.MethodGet, "/files/"+id+"/data", nil, map[string]string{TokenHeader: token})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A folder doesn't have content", decodeBody(t, rec)["error"])

	// anonymous sees the same because the folder is public
	rec = f.do(t, http.MethodGet, "/files/"+id+"/data", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusAndStats(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/status", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["redis"])
	assert.Equal(t, false, body["db"]) // no database behind the fixture

	token := f.signUp(t, "bob@dylan.com", "toto1234!")
	f.upload(t, token, map[string]any{"name": "x.txt", "type": "file", "data": helloWorldB64})
	f.upload(t, token, map[string]any{"name": "docs", "type": "folder"})

	rec = f.do(t, http.MethodGet, "/stats", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, float64(1), body["users"])
	assert.Equal(t, float64(2), body["files"])
}
