package controllers_test

import (
	"testing"

	"code-helper/controllers"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tests"
)

func testAppFactory(t testing.TB) *tests.TestApp {
	app, err := tests.NewTestApp()
	if err != nil {
		t.Fatal(err)
	}

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		controllers.SetupPromptRoutes(se, app)
		controllers.SetupWebhookRoutes(se, app)
		controllers.SetupHealthRoutes(se)
		return se.Next()
	})

	return app
}
