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

package cli

import (
	"context"
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/tgtransfer/tgtransfer/pkg/transfer"
	"github.com/tgtransfer/tgtransfer/pkg/util"
)

const barNameWidth = 24

// ProgressBars renders one byte progress bar per transfer.
type ProgressBars struct {
	verb string
	p    *mpb.Progress
}

var _ transfer.Progress = (*ProgressBars)(nil)

// NewProgressBars creates a bar container writing to out. verb prefixes each
// bar, e.g. "Uploading". Wait must be called before writing anything else to
// out.
func NewProgressBars(ctx context.Context, out io.Writer, verb string) *ProgressBars {
	return &ProgressBars{
		verb: verb,
		p:    mpb.NewWithContext(ctx, mpb.WithOutput(out), mpb.WithWidth(40)),
	}
}

// Track adds a bar for a new transfer. Bars start with a dynamic total and
// pick up the real size from the first progress report.
func (b *ProgressBars) Track(name string, total int64) transfer.Tracker {
	label := b.verb + " " + util.Truncate(name, barNameWidth)
	bar := b.p.New(0,
		mpb.BarStyle().Lbound("|").Rbound("|"),
		mpb.PrependDecorators(
			decor.Name(label, decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			decor.OnAbort(decor.OnComplete(decor.Percentage(decor.WCSyncSpace), "done"), "failed"),
		),
		mpb.AppendDecorators(
			decor.CountersKibiByte("% .1f / % .1f"),
			decor.Name(" | "),
			decor.OnComplete(decor.AverageSpeed(decor.SizeB1024(0), "% .1f"), ""),
		),
	)
	tracker := &barTracker{bar: bar}
	tracker.setTotal(total)
	return tracker
}

// Wait blocks until every tracked bar has completed or failed.
func (b *ProgressBars) Wait() {
	b.p.Wait()
}

type barTracker struct {
	bar   *mpb.Bar
	total int64
}

func (t *barTracker) setTotal(total int64) {
	if total > 0 && total != t.total {
		t.total = total
		t.bar.SetTotal(total, false)
	}
}

func (t *barTracker) OnProgress(current, total int64) {
	t.setTotal(total)
	t.bar.SetCurrent(current)
}

func (t *barTracker) OnComplete() {
	t.bar.SetTotal(-1, true)
}

func (t *barTracker) OnFail(error) {
	t.bar.Abort(false)
}
