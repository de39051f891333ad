package core

// Logger is any service that can log & report messages.
// args may hold errors, maps of extra data or the child currently authenticated.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
