package main

import (
	"code-helper/controllers"
	"code-helper/helpers"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

var app *pocketbase.PocketBase

func main() {
	app = helpers.CreateApp()

	godotenv.Load()

	if os.Getenv("DEEPSEEK_API_KEY") == "" {
		log.Fatal("DEEPSEEK_API_KEY environment variable is not set")
	}
	if os.Getenv("GITHUB_TOKEN") == "" {
		log.Println("GITHUB_TOKEN is not set, GitHub review creation is disabled")
	}

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		controllers.SetupPromptRoutes(se, app)
		controllers.SetupWebhookRoutes(se, app)
		controllers.SetupHealthRoutes(se)
		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
