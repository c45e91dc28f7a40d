/*
 * errors.go, part of gokubo.
 *
 * Copyright 2026 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package kubo

import "fmt"

// Error is the interface for errors in this library. The Decorate method allows to add and
// retrieve info from the error, without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Adds information to the error as it is passed up the calling stack. If passed an empty string, it just returns the current decoration.
}

// CalcError is the concrete error for the calculation pipeline. The combination field
// carries the species combination being processed when the error arose, or an
// empty string if none.
type CalcError struct {
	message     string
	combination string
	deco        []string
	critical    bool
}

func (err CalcError) Error() string {
	if err.combination == "" {
		return fmt.Sprintf("gokubo error: %s", err.message)
	}
	return fmt.Sprintf("gokubo error in combination %s: %s", err.combination, err.message)
}

// Decorate adds new information to the error
func (err CalcError) Decorate(deco string) []string {
	//The receiver is not a pointer, but err.deco is a slice, so the append is still
	//visible through the copies.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Message returns the bare message constant, so callers can distinguish
// the error conditions without parsing the formatted text.
func (err CalcError) Message() string { return err.message }

// Combination returns the species combination associated to the error, if any.
func (err CalcError) Combination() string { return err.combination }

// Critical returns true if the error is critical, false otherwise
func (err CalcError) Critical() bool { return err.critical }

// The error conditions of the pipeline. All of them are fatal for the
// calculation that produced them; none is retried.
const (
	InsufficientMemory    = "No batch of at least data_range timesteps fits the memory budget"
	InvalidWindow         = "data_range must be at least 2 and correlation_time at least 1"
	StorageReadFailure    = "Bulk read from the property storage failed"
	EmptySampleSet        = "The trajectory is too short to produce even one ensemble"
	UnknownCoefficient    = "No such transport coefficient in the prefactor table"
	NoSpecies             = "No species to process"
	InsufficientParticles = "Distinct correlations need at least one particle pair in the combination"
)

// MessageOf returns the message constant of a pipeline error, or the empty
// string if err is not one.
func MessageOf(err error) string {
	ce, ok := err.(interface{ Message() string })
	if !ok {
		return ""
	}
	return ce.Message()
}

func errDecorate(err error, deco string) error {
	e, ok := err.(Error)
	if !ok {
		return err
	}
	e.Decorate(deco)
	return e
}

// LastBatchError is the interface for the harmless error marking the end of a
// lazy sequence (of batches or of ensembles), so it can be filtered in a type
// switch that looks for this interface.
type LastBatchError interface {
	Error
	Last() bool
}

type lastBatch struct {
	what string
}

func (err lastBatch) Error() string            { return "gokubo: last " + err.what + " read" }
func (err lastBatch) Decorate(string) []string { return nil }
func (err lastBatch) Last() bool               { return true }

// IsLast returns true if err just marks the normal end of a batch or
// ensemble sequence.
func IsLast(err error) bool {
	_, ok := err.(LastBatchError)
	return ok
}
