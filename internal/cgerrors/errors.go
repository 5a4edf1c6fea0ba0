// Copyright 2026 CGraph Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@cgraph.dev
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cgerrors implements the error taxonomy of the ingestion and
// analysis pipeline: skip-file errors, stage errors, and cancellation
// outcomes, plus a UserError type for CLI-facing diagnostics with
// consistent exit codes. Resolution misses are not errors and have no
// type here; the resolving stage simply records no edge.
package cgerrors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Exit codes for CLI termination.
const (
	ExitSuccess     = 0
	ExitConfig      = 1
	ExitStage       = 2
	ExitNetwork     = 3
	ExitInput       = 4
	ExitPermission  = 5
	ExitNotFound    = 6
	ExitCancelled   = 7
	ExitInternal    = 10
)

// UserError carries structured context for end-user-facing CLI errors:
// what went wrong, why, and how to fix it.
type UserError struct {
	Message  string
	Cause    string
	Fix      string
	ExitCode int
	Err      error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error { return e.Err }

func NewConfigError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitConfig, Err: err}
}

func NewStageError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitStage, Err: err}
}

func NewNetworkError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitNetwork, Err: err}
}

func NewInputError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInput}
}

func NewNotFoundError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitNotFound}
}

func NewInternalError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInternal, Err: err}
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format renders the error for terminal display, honoring NO_COLOR.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")
	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}
	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}
	return out.String()
}

// ErrorJSON is the --json rendering of a UserError.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{Error: e.Message, Cause: e.Cause, Fix: e.Fix, ExitCode: e.ExitCode}
}

// FatalError prints err and exits with its exit code. A nil err is a
// no-op and returns.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}
	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(ue.ExitCode)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}

// SkipFileError records a per-file failure (parse failure, unknown
// language, query-compile failure) that must not abort the pipeline.
// These surface only as progress warnings.
type SkipFileError struct {
	FilePath string
	Stage    string
	Reason   error
}

func (e *SkipFileError) Error() string {
	return fmt.Sprintf("skip %s at stage %s: %v", e.FilePath, e.Stage, e.Reason)
}

func (e *SkipFileError) Unwrap() error { return e.Reason }

// StageError records a precondition or invariant violation that forces
// the orchestrator to abort the run and dispose of partial state.
type StageError struct {
	Stage     string
	Message   string
	Err       error
	Timestamp time.Time
}

func NewStagePanic(stage, message string, err error) *StageError {
	return &StageError{Stage: stage, Message: message, Err: err, Timestamp: time.Now()}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %s: %v", e.Stage, e.Message, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ErrCancelled is returned by the orchestrator when a run is cancelled
// via its cancellation token. It is a distinct outcome, not an error to
// be logged at error severity.
var ErrCancelled = &UserError{
	Message:  "pipeline run cancelled",
	ExitCode: ExitCancelled,
}
