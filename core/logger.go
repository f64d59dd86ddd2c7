package core

// Logger is the logging contract of the app.
// args may hold an error, a map[string]interface{} of extras or domain values.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
