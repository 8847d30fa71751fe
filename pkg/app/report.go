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

package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tgtransfer/tgtransfer/pkg/humanise"
	"github.com/tgtransfer/tgtransfer/pkg/transfer"
)

// reportFailures prints one line per failed item and logs it with its
// category.
func (a *App) reportFailures(ctx context.Context, summary transfer.Summary) {
	log := zerolog.Ctx(ctx)
	for _, failure := range summary.Failures {
		kind := humanise.Classify(failure.Err)
		log.Warn().
			Err(failure.Err).
			Str("item", failure.Name).
			Stringer("category", kind).
			Msg("Transfer failed")
		a.Term.Error("X %s", humanise.Failure(failure.Name, failure.Err))
	}
}

// reportSummary prints the end of run summary for a batch run. verb is the
// past tense of the operation, e.g. "uploaded".
func (a *App) reportSummary(ctx context.Context, summary transfer.Summary, verb string) {
	a.reportFailures(ctx, summary)
	attempted := summary.Attempted()
	zerolog.Ctx(ctx).Info().
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("already_done", summary.AlreadyDone).
		Msg("Transfer run finished")
	switch {
	case attempted == 0:
	case summary.Failed == 0:
		a.Term.Success("\n+ Completed successfully! %d/%d files %s", summary.Succeeded, attempted, verb)
	case summary.Succeeded > 0:
		a.Term.Info("\n! Partially completed: %d/%d files %s, %d failed", summary.Succeeded, attempted, verb, summary.Failed)
	default:
		a.Term.Error("\nX Failed: 0/%d files %s", attempted, verb)
	}
}
