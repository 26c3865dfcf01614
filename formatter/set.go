package formatter

import "github.com/sirupsen/logrus"

// SetTextFormatter set the formatter for given logger.
// Calling it again keeps a single context hook on the logger.
func SetTextFormatter(logger *logrus.Logger) {
	logger.Formatter = NewTextFormatter()
	logger.ReportCaller = true

	for _, hook := range logger.Hooks[logrus.InfoLevel] {
		if _, ok := hook.(*ContextHook); ok {
			return
		}
	}
	logger.AddHook(NewContextHook())
}
