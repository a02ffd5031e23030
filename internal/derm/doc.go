// Package derm is the orchestration layer behind the HTTP API and the CLI.
// It is structured into small files by concern:
//
//   - service.go: Service type, constructor and the analysis entry point.
//   - config.go: Config and package defaults; New applies defaults.
//   - followup.go: food recommendation and two-step cause prediction.
//   - prompts.go: prompt texts sent upstream. Labels must match package parse.
//   - maps.go: dermatologist finder (map embed URL from a location).
//   - errors.go: error types and helpers (IsInvalidInput, IsGeolocation).
//
// Every upstream call goes through a pipeline.Runner, so model fallback and
// overload backoff behave the same for analysis and follow-ups.
package derm
