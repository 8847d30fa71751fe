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

package transfer

// Progress creates a [Tracker] for every item a runner launches. It keeps
// terminal rendering out of the transfer logic.
type Progress interface {
	Track(name string, total int64) Tracker
}

// Tracker receives progress events for one item.
type Tracker interface {
	OnProgress(current, total int64)
	OnComplete()
	OnFail(err error)
}

// NopProgress discards all progress events.
type NopProgress struct{}

var _ Progress = NopProgress{}

func (NopProgress) Track(string, int64) Tracker { return nopTracker{} }

type nopTracker struct{}

func (nopTracker) OnProgress(int64, int64) {}
func (nopTracker) OnComplete()             {}
func (nopTracker) OnFail(error)            {}
