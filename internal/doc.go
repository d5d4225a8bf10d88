// Package internal contains the implementation packages of the pretext CLI.
//
// # Package Organization
//
//   - build: format dispatch, the xsltproc compiler and watch-mode rebuilds
//   - config: the .pretext.yml manifest and its validation
//   - errors: the CLI error taxonomy, exit codes and suggestions
//   - format: output format selection
//   - logging: slog-backed structured logging
//   - middleware: handler chain for the preview server
//   - params: parsing and merging of key=value stylesheet parameters
//   - preview: the static preview server behind `pretext view`
//   - scaffolding: project generation behind `pretext new`
//   - validation: path and command allowlisting
//   - version: build metadata
//   - watcher: debounced fsnotify watching
//   - websocket: the live-reload hub
//
// Commands in cmd/ own user interaction. Packages here return errors and
// never write to stdout.
package internal
