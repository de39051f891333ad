package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/bassiony1/public-ANEES/apps/api/echo"
	"github.com/bassiony1/public-ANEES/core/child"
	"github.com/bassiony1/public-ANEES/core/level"
	"github.com/bassiony1/public-ANEES/tests"
)

func Test_childApi_create(t *testing.T) {
	d := setup(t)
	testutil.CreateLevel(t, d.progress.AddLevel, 1, testutil.Games(true, true, true))

	kid := testutil.CreateChild(t, d.children, "kid")
	adminToken := staffToken(t, d.conf)

	runTests(t, d, []httpTest{
		{name: "Auth required", method: http.MethodPost, path: "/api/children", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Staff required", method: http.MethodPost, path: "/api/children", token: getToken(t, d.conf, kid, false),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Username required", method: http.MethodPost, path: "/api/children", token: adminToken, body: []byte(`{"email": "x@test.eg"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"username": "this field is required"}),
		},
		{
			name: "Invalid username", method: http.MethodPost, path: "/api/children", token: adminToken, body: []byte(`{"username": "no way"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"username": "only alphanumeric characters and underscores are allowed"}),
		},
		{
			name: "Duplicate username", method: http.MethodPost, path: "/api/children", token: adminToken, body: []byte(`{"username": "kid"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"username": child.ErrUsernameExists.Error()}),
		},
		{
			name: "Duplicate ID", method: http.MethodPost, path: "/api/children", token: adminToken, body: []byte(`{"id": "` + kid.ID + `", "username": "kid2"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"id": child.ErrExists.Error()}),
		},
	})

	body := []byte(`{"id": "0b8f8bb4-54e4-4bd8-a7a9-d8d0a8d5b2f1", "username": "hero", "email": "Hero@Test.eg", "gender": "m", "date_of_birth": "2015-04-01T00:00:00Z"}`)
	req, rec := newAuthRequest(http.MethodPost, "/api/children", adminToken, body)
	d.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created child.Child
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "0b8f8bb4-54e4-4bd8-a7a9-d8d0a8d5b2f1", created.ID)
	assert.Equal(t, "hero@test.eg", created.Email)
	assert.Equal(t, child.GenderMale, created.Gender)
	assert.True(t, created.DateOfBirth.Valid)

	// level 1 was opened for the new child
	_, err := d.progress.Get(t.Context(), created.ID, 1)
	assert.NoError(t, err)
}

func Test_childApi_query(t *testing.T) {
	d := setup(t)

	kid := testutil.CreateChild(t, d.children, "kid")
	adminToken := staffToken(t, d.conf)

	runTests(t, d, []httpTest{
		{name: "Auth required", path: "/api/children", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Staff required", path: "/api/children", token: getToken(t, d.conf, kid, false),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
	})

	testutil.CreateChild(t, d.children, "another")
	req, rec := newAuthRequest(http.MethodGet, "/api/children", adminToken)
	d.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var children []child.Child
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &children))
	require.Len(t, children, 2)
	assert.Equal(t, "another", children[0].Username)
	assert.Equal(t, "kid", children[1].Username)
}

func Test_childApi_profile(t *testing.T) {
	d := setup(t)
	testutil.CreateLevel(t, d.progress.AddLevel, 1, testutil.Games(true, true, true))
	testutil.CreateLevel(t, d.progress.AddLevel, 2, testutil.Games(true, true, true))

	kid := testutil.CreateChild(t, d.children, "kid")
	other := testutil.CreateChild(t, d.children, "other")
	kidToken := getToken(t, d.conf, kid, false)
	adminToken := staffToken(t, d.conf)

	for cat, score := range map[level.Category]string{level.Receptive: "90", level.Expressive: "60", level.Social: "30"} {
		req, rec := newAuthRequest(http.MethodPost, "/api/levels/1/"+string(cat), kidToken, []byte(`{"score": `+score+`}`))
		d.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	runTests(t, d, []httpTest{
		{name: "Auth required", path: "/api/children/me", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Other child's profile", path: "/api/children/" + other.ID, token: kidToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "You Are Not Allowed To Access This Profile"}),
		},
		{
			name: "Other child's words", path: "/api/children/" + other.ID + "/words", token: kidToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "You Are Not Allowed To Access This Profile"}),
		},
		{
			name: "Unknown child (staff)", path: "/api/children/0b8f8bb4-54e4-4bd8-a7a9-d8d0a8d5b2f1", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Child Does Not Exist"}),
		},
		{
			name: "Staff is no child", path: "/api/children/me", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Child Does Not Exist"}),
		},
		{
			name: "Own words", path: "/api/children/me/words", token: kidToken,
			wantData: marchallObj(t, WordsResponse{Words: child.Words{Receptive: []string{"apple"}, Expressive: []string{"cat"}}}),
		},
		{
			name: "Own words by ID", path: "/api/children/" + kid.ID + "/words", token: kidToken,
			wantData: marchallObj(t, WordsResponse{Words: child.Words{Receptive: []string{"apple"}, Expressive: []string{"cat"}}}),
		},
		{
			name: "Other child's words (staff)", path: "/api/children/" + other.ID + "/words", token: adminToken,
			wantData: marchallObj(t, WordsResponse{Words: child.Words{Receptive: []string{}, Expressive: []string{}}}),
		},
	})

	tests := []struct {
		name      string
		path      string
		token     string
		want      child.Child
		wantLevel int
		wantAcc   child.Accuracy
		wantWords string
	}{
		{
			name: "Own profile", path: "/api/children/me", token: kidToken, want: kid, wantLevel: 2,
			wantAcc: child.Accuracy{Receptive: 90, Expressive: 60, Social: 30}, wantWords: host + "/api/children/me/words",
		},
		{
			name: "Own profile by ID", path: "/api/children/" + kid.ID, token: kidToken, want: kid, wantLevel: 2,
			wantAcc: child.Accuracy{Receptive: 90, Expressive: 60, Social: 30}, wantWords: host + "/api/children/" + kid.ID + "/words",
		},
		{
			name: "Other child's profile (staff)", path: "/api/children/" + other.ID, token: adminToken, want: other, wantLevel: 1,
			wantWords: host + "/api/children/" + other.ID + "/words",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			d.app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var p ProfileResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
			assert.Equal(t, tt.want.ID, p.UserInfo.ID)
			assert.Equal(t, tt.want.Username, p.UserInfo.Username)
			assert.Equal(t, tt.want.Email, p.UserInfo.Email)
			assert.Nil(t, p.UserInfo.DateOfBirth)
			assert.Zero(t, p.Age)
			assert.Zero(t, p.JoinDurationInDays)
			assert.Equal(t, tt.wantLevel, p.CurrentLevel)
			assert.Equal(t, tt.wantAcc, p.Accuracy)
			assert.Equal(t, tt.wantWords, p.Words)
		})
	}
}

func Test_childApi_update(t *testing.T) {
	d := setup(t)

	kid := testutil.CreateChild(t, d.children, "kid")
	kidToken := getToken(t, d.conf, kid, false)

	runTests(t, d, []httpTest{
		{name: "Auth required", method: http.MethodPut, path: "/api/children/me", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Invalid picture", method: http.MethodPut, path: "/api/children/me", token: kidToken, body: []byte(`{"picture": "lol"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"picture": "picture must be a valid URL"}),
		},
		{name: "Picture updated", method: http.MethodPut, path: "/api/children/me", token: kidToken, body: []byte(`{"picture": "https://cdn.test/kid.png"}`)},
	})

	got, err := d.children.Get(t.Context(), kid.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/kid.png", got.Picture)
}
