package helpers

import "github.com/pocketbase/pocketbase/core"

func Logging(app core.App, logType, message string) {
	switch logType {
	case "error":
		app.Logger().Error(message)
	case "debug":
		app.Logger().Debug(message)
	case "warn":
		app.Logger().Warn(message)
	default:
		app.Logger().Info(message)
	}
}
