package dto

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgapp "github.com/mekstation/vault-sync-service/pkg/app"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindConflictRecord(t *testing.T, body string) (bool, pkgapp.ValidErrors, *ConflictRecordRequest) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/conflict", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	params := &ConflictRecordRequest{}
	valid, errs := pkgapp.BindAndValid(c, params)
	return valid, errs, params
}

func TestConflictRecordRequest_ZeroLocalVersionBinds(t *testing.T) {
	// 条目尚无本地历史时 localVersion 为 0，必须通过校验
	valid, errs, params := bindConflictRecord(t,
		`{"contentType":"unit","itemId":"atlas-1","remotePeerId":"peer-a","localVersion":0,"remoteVersion":1}`)

	require.True(t, valid, "zero localVersion rejected: %v", errs)
	assert.Equal(t, int64(0), params.LocalVersion)
	assert.Equal(t, int64(1), params.RemoteVersion)
}

func TestConflictRecordRequest_MissingItemIDRejected(t *testing.T) {
	valid, _, _ := bindConflictRecord(t,
		`{"contentType":"unit","remotePeerId":"peer-a","localVersion":2,"remoteVersion":3}`)

	assert.False(t, valid)
}
