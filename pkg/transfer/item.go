// tgtransfer - Batch media transfer tools for Telegram.
// Copyright (C) 2026 tgtransfer contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package transfer implements the resumable batch engine shared by the
// download and upload tools.
//
// A run takes an ordered list of [Item]s, drops the ones a [StateStore]
// (or a caller supplied check) already considers done, and executes the rest
// in fixed-size batches. Each batch is fully joined and checkpointed to the
// state store before the next one starts.
package transfer

import "fmt"

// Item is a single unit of work. Downloads use message IDs as keys, uploads
// use file paths.
type Item[K comparable] struct {
	ID   K
	Size int64
	Name string
}

func (i Item[K]) String() string {
	if i.Name != "" {
		return i.Name
	}
	return fmt.Sprint(i.ID)
}

// Failure records why a single item did not complete.
type Failure struct {
	Name string
	Err  error
}

// Summary is the aggregate outcome of a [Runner.Run] call.
type Summary struct {
	Succeeded   int
	Failed      int
	AlreadyDone int

	Failures []Failure
}

// Total is the number of items the summary accounts for.
func (s Summary) Total() int {
	return s.Succeeded + s.Failed + s.AlreadyDone
}

// Attempted is the number of items the operation was invoked for.
func (s Summary) Attempted() int {
	return s.Succeeded + s.Failed
}
