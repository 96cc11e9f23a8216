package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestTitleName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Lena", titleName("lena"))
	require.Equal(t, "Lena", titleName("Lena"))
	require.Equal(t, "Élodie", titleName("élodie"))
	require.Equal(t, "", titleName(""))
}

func TestPageParams(t *testing.T) {
	t.Parallel()

	ctx := func(query string) echo.Context {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	page, size := pageParams(ctx(""))
	require.Equal(t, 0, page)
	require.Equal(t, defaultPageSize, size)

	page, size = pageParams(ctx("page=3&size=50"))
	require.Equal(t, 3, page)
	require.Equal(t, 50, size)

	page, size = pageParams(ctx("page=-2&size=10000"))
	require.Equal(t, 0, page)
	require.Equal(t, maxPageSize, size)
}
