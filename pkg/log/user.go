package log

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/pagepatch/pkg/status"
)

// 📢 UserLogger provides user-friendly feedback about a patch run
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer
}

// 🎯 NewUserLoggerWithWriter creates a new user logger writing to w, using
// the zerolog logger carried by ctx
func NewUserLoggerWithWriter(ctx context.Context, w io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: w,
	}
}

func (u *UserLogger) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return base.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style}).WithWriter(u.out)
}

// 📊 LogStateChange logs a change to the overall run
func (u *UserLogger) LogStateChange(description string) {
	u.printer(pterm.Info, "📦").Println(description)
	u.log.Info().Msg(description)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		u.printer(pterm.Success, "✅").Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		u.printer(pterm.Error, "❌").Println(description)
		pterm.Error.WithWriter(u.out).Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	u.printer(pterm.Warning, "⚠️").Println(description)
	u.log.Warn().Msg(description)
}

// 🚨 LogFailure logs an error that aborted the run
func (u *UserLogger) LogFailure(err error) {
	u.printer(pterm.Error, "❌").Println(err.Error())
	u.log.Error().Err(err).Msg("run failed")
}

// 📈 LogSummary prints per outcome counts, skipping outcomes that never happened
func (u *UserLogger) LogSummary(counts map[status.Outcome]int) {
	outcomes := make([]status.Outcome, 0, len(counts))
	for o, n := range counts {
		if n > 0 {
			outcomes = append(outcomes, o)
		}
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i] < outcomes[j] })

	if len(outcomes) == 0 {
		u.printer(pterm.Info, "📊").Println("nothing to do")
		return
	}

	parts := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		parts = append(parts, fmt.Sprintf("%d %s", counts[o], o))
	}
	msg := strings.Join(parts, ", ")

	if counts[status.OutcomeFailed] > 0 {
		u.printer(pterm.Warning, "📊").Println(msg)
	} else {
		u.printer(pterm.Success, "📊").Println(msg)
	}
	u.log.Debug().Interface("counts", counts).Msg("summary")
}
