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

package store

import (
	"fmt"

	kubo "github.com/rmera/gokubo"
)

// Error is the concrete error for the storage backends. It implements
// kubo.Error.
type Error struct {
	message  string
	filename string //the file with problems, or the empty string if none
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("gks store error: %s", err.message)
	}
	return fmt.Sprintf("gks file %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file associated to the error, if any
func (err Error) FileName() string { return err.filename }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniWrite = "File not initialized for writing"
	UnableToOpen   = "Unable to open file"
	WrongFormat    = "Wrong format in the gks file"
	ReadError      = "Error reading frames"
	WriteError     = "Error writing frames"
)

func errDecorate(err error, deco string) error {
	e, ok := err.(kubo.Error)
	if !ok {
		return err
	}
	e.Decorate(deco)
	return e
}
