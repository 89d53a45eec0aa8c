package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestGenerateOtpCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 64; i++ {
		code, err := GenerateOtpCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}

	// 64 draws from a million values colliding down to a handful would
	// point at a broken generator
	require.Greater(t, len(seen), 32)
}

func paginationContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestGetPaginationParams_Defaults(t *testing.T) {
	params := GetPaginationParams(paginationContext(t, ""))
	require.Equal(t, 1, params.Page)
	require.Equal(t, 100, params.Limit)
	require.Equal(t, 0, params.Offset)
}

func TestGetPaginationParams_Explicit(t *testing.T) {
	params := GetPaginationParams(paginationContext(t, "page=3&limit=25"))
	require.Equal(t, 3, params.Page)
	require.Equal(t, 25, params.Limit)
	require.Equal(t, 50, params.Offset)
}

func TestGetPaginationParams_OutOfRange(t *testing.T) {
	params := GetPaginationParams(paginationContext(t, "page=-1&limit=9000"))
	require.Equal(t, 1, params.Page)
	require.Equal(t, 100, params.Limit)
	require.Equal(t, 0, params.Offset)
}
