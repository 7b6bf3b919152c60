package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/alanyoungcy/marketdash/internal/dashboard"
	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/export"
)

const browseHelp = `commands:
  /text | search text   search (applied after typing pauses)
  cat [code]            filter by category, blank clears it
  active                toggle active-only
  n | p | g N           next, previous, go to page N
  size N                change page size
  r                     refresh
  clear                 drop all filters
  e json|csv            export the filtered markets
  h                     help
  q                     quit`

// browseAction identifies a parsed browse command.
type browseAction int

const (
	actNone browseAction = iota
	actSearch
	actCategory
	actToggleActive
	actNext
	actPrev
	actGoto
	actSize
	actRefresh
	actClear
	actExport
	actHelp
	actQuit
)

type browseCommand struct {
	action browseAction
	arg    string
	n      int
}

// parseCommand turns one input line into a command.
func parseCommand(line string) (browseCommand, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return browseCommand{action: actNone}, nil
	}
	if rest, ok := strings.CutPrefix(line, "/"); ok {
		return browseCommand{action: actSearch, arg: rest}, nil
	}

	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(verb) {
	case "search", "s":
		return browseCommand{action: actSearch, arg: arg}, nil
	case "cat", "category":
		return browseCommand{action: actCategory, arg: arg}, nil
	case "active", "a":
		return browseCommand{action: actToggleActive}, nil
	case "n", "next":
		return browseCommand{action: actNext}, nil
	case "p", "prev":
		return browseCommand{action: actPrev}, nil
	case "g", "goto", "size":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return browseCommand{}, fmt.Errorf("%s needs a number, got %q", verb, arg)
		}
		if strings.EqualFold(verb, "size") {
			return browseCommand{action: actSize, n: n}, nil
		}
		return browseCommand{action: actGoto, n: n}, nil
	case "r", "refresh":
		return browseCommand{action: actRefresh}, nil
	case "clear":
		return browseCommand{action: actClear}, nil
	case "e", "export":
		if arg == "" {
			arg = string(domain.ExportFormatCSV)
		}
		return browseCommand{action: actExport, arg: arg}, nil
	case "h", "help", "?":
		return browseCommand{action: actHelp}, nil
	case "q", "quit", "exit":
		return browseCommand{action: actQuit}, nil
	default:
		return browseCommand{}, fmt.Errorf("unknown command %q (h for help)", verb)
	}
}

// browser renders controller snapshots and dispatches commands. Output is
// serialized because debounced searches complete on a timer goroutine.
type browser struct {
	ctrl    *dashboard.Controller
	labels  export.Labels
	deliver func(context.Context, *domain.ExportArtifact) (domain.ExportRecord, error)

	mu   sync.Mutex
	out  io.Writer
	last dashboard.State
}

func (b *browser) printf(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, format, args...)
}

// onChange renders the table whenever a load completes.
func (b *browser) onChange(s dashboard.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev := b.last
	b.last = s.State
	if prev != dashboard.StateLoading || s.State == dashboard.StateLoading {
		return
	}
	switch s.State {
	case dashboard.StateErrored:
		fmt.Fprintln(b.out, errorStyle.Render("load failed: "+s.Err.Error()))
	case dashboard.StateLoaded:
		renderMarkets(b.out, s.Markets, b.labels)
		renderFooter(b.out, s.Pagination, len(s.Markets), s.Filtered, b.labels)
	}
}

// execute runs one command. It reports false when the session should end.
func (b *browser) execute(ctx context.Context, cmd browseCommand) (bool, error) {
	snap := b.ctrl.Snapshot()
	criteria := snap.Criteria

	var err error
	switch cmd.action {
	case actNone:
	case actSearch:
		if strings.TrimSpace(cmd.arg) == "" {
			criteria.Search = ""
			err = b.ctrl.ApplyFilters(ctx, criteria)
			break
		}
		criteria.Search = cmd.arg
		b.ctrl.ScheduleSearch(ctx, criteria)
	case actCategory:
		criteria.Category = cmd.arg
		err = b.ctrl.ApplyFilters(ctx, criteria)
	case actToggleActive:
		criteria.ActiveOnly = !criteria.ActiveOnly
		err = b.ctrl.ApplyFilters(ctx, criteria)
	case actNext:
		err = b.ctrl.NextPage(ctx)
	case actPrev:
		err = b.ctrl.PrevPage(ctx)
	case actGoto:
		err = b.ctrl.GoToPage(ctx, cmd.n)
	case actSize:
		err = b.ctrl.SetPageSize(ctx, cmd.n)
	case actRefresh:
		err = b.ctrl.Refresh(ctx)
	case actClear:
		err = b.ctrl.ClearFilters(ctx)
	case actExport:
		err = b.export(ctx, cmd.arg)
	case actHelp:
		b.printf("%s\n", browseHelp)
	case actQuit:
		return false, nil
	}

	// Load failures are already rendered from the snapshot.
	if err != nil && snapLoadFailed(b.ctrl, err) {
		err = nil
	}
	if errors.Is(err, dashboard.ErrSuperseded) {
		err = nil
	}
	return true, err
}

func snapLoadFailed(ctrl *dashboard.Controller, err error) bool {
	s := ctrl.Snapshot()
	return s.State == dashboard.StateErrored && errors.Is(err, s.Err)
}

func (b *browser) export(ctx context.Context, format string) error {
	f, err := domain.ParseExportFormat(format)
	if err != nil {
		return err
	}
	artifact, err := b.ctrl.Export(ctx, f)
	if err != nil {
		return err
	}
	rec, err := b.deliver(ctx, artifact)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	renderRecord(b.out, rec)
	return nil
}

// run loads the first page and processes input lines until quit, EOF or
// cancellation.
func (b *browser) run(ctx context.Context, in io.Reader) error {
	if err := b.ctrl.Load(ctx); err != nil && !snapLoadFailed(b.ctrl, err) {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		b.printf("> ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
			if !ok {
				return nil
			}
		}

		cmd, err := parseCommand(line)
		if err != nil {
			b.printf("%s\n", errorStyle.Render(err.Error()))
			continue
		}
		more, err := b.execute(ctx, cmd)
		if err != nil {
			b.printf("%s\n", errorStyle.Render(err.Error()))
		}
		if !more {
			return nil
		}
	}
}

func browseCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive dashboard: filter, page through and export markets",
		Long:  "Interactive dashboard driven by one command per line.\n\n" + browseHelp,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(cmd.Context())
			if err != nil {
				return err
			}
			b := &browser{
				labels:  a.Deps().Exporter.Labels(),
				deliver: a.Deliver,
				out:     cmd.OutOrStdout(),
			}
			ctrl, err := a.NewController(dashboard.WithOnChange(b.onChange))
			if err != nil {
				return err
			}
			defer ctrl.Close()
			b.ctrl = ctrl
			return b.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}
