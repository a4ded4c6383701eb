package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/gradebook/apps/api/echo"
	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/testutil"
)

func TestNew(t *testing.T) {
	conf := testutil.NewConfig(t)
	conf.Server.DisableReqLogs = true
	c := New(func() *core.Config { return conf })

	err := c.Invoke(func(server *echoapi.Server, engine *grading.Engine, db core.DB, cleanup Cleanup) {
		defer func() {
			assert.NoError(t, cleanup.SessionStore.Close())
			assert.NoError(t, cleanup.DB.Close())
		}()

		// migrations ran and the default rules are seeded
		grd, err := engine.GradeFor(context.Background(), db, 92)
		require.NoError(t, err)
		assert.Equal(t, "A", grd)

		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
	require.NoError(t, err)
}
