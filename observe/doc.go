// Package observe turns search events into logs and metrics.
//
// Logger writes structured logrus entries: node lifecycle at debug level,
// incumbent changes and the final summary at info, time limits at warn.
// Metrics maintains prometheus collectors registered on a caller supplied
// Registerer. Both implement event.Listener and are attached with
// bap.WithListeners or event.Bus.Subscribe.
package observe
