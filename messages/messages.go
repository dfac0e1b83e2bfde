// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-gameid.
//
// go-gameid is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-gameid is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-gameid.  If not, see <https://www.gnu.org/licenses/>.

// Package messages holds the two process-wide diagnostic sinks every
// recipe reports through: an error sink (failures) and a verbose sink
// (informational tracing). Recipes and the iterator both depend on this
// package rather than on the root romhash package, which avoids an
// import cycle (the root package depends on recipes, not the other way
// around).
//
// Neither sink retains the strings passed to it past the call that
// delivers them, matching spec.md §6's callback contract.
package messages

import "fmt"

// Sink receives a single-line, NUL-free diagnostic message.
type Sink func(message string)

var (
	errorSink   Sink
	verboseSink Sink
)

// InstallError sets the process-wide error sink. Pass nil to silence it.
func InstallError(fn Sink) { errorSink = fn }

// InstallVerbose sets the process-wide verbose sink. Pass nil to
// silence it.
func InstallVerbose(fn Sink) { verboseSink = fn }

// Errorf reports a formatted error message. A recipe calls this exactly
// once per failure, immediately before returning its zero value.
func Errorf(format string, args ...any) {
	if errorSink == nil {
		return
	}
	errorSink(fmt.Sprintf(format, args...))
}

// Verbosef reports a formatted diagnostic message. Absence of a sink is
// legal and is the default.
func Verbosef(format string, args ...any) {
	if verboseSink == nil {
		return
	}
	verboseSink(fmt.Sprintf(format, args...))
}
