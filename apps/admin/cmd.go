package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/jmoiron/sqlx"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"

	"github.com/KLubina/Modul-335/core"
	"github.com/KLubina/Modul-335/core/module"
)

const (
	clearScreen = "\033[H\033[2J"

	suggestionCutoff = 0.6
	maxSuggestions   = 3
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db        *sqlx.DB // nil with the memory engine
	svc       *module.Service
	validator *module.Validator
	logger    core.Logger
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  list                                             - list modules and their averages")
	fmt.Fprintln(cli.out, "  show -number NUMBER                              - show one module")
	fmt.Fprintln(cli.out, "  add -number NUMBER -title TITLE [-zp G] [-lb G]  - add (or replace) a module")
	fmt.Fprintln(cli.out, "  edit -number NUMBER -title TITLE [-zp G] [-lb G] - edit an existing module")
	fmt.Fprintln(cli.out, "  delete -number NUMBER                            - delete a module")
	fmt.Fprintln(cli.out, "  watch                                            - print the list on every change")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                           - run a goose command (up, down, status, ...)")
}

type formFlags struct {
	set    *flag.FlagSet
	number *string
	title  *string
	zp     *string
	lb     *string
}

func (cli *commandLine) newFormFlags(name string) formFlags {
	set := cli.newFlagSet(name)
	return formFlags{
		set:    set,
		number: set.String("number", "", "The module number, eg. M335."),
		title:  set.String("title", "", "The module title."),
		zp:     set.String("zp", "", "The ZP grade (1.0 to 6.0), optional."),
		lb:     set.String("lb", "", "The LB grade (1.0 to 6.0), optional."),
	}
}

func (ff formFlags) form() module.Form {
	return module.Form{Number: *ff.number, Title: *ff.title, ZPNote: *ff.zp, LBNote: *ff.lb}
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.SetOutput(cli.out)
	return set
}

func (cli *commandLine) parse(set *flag.FlagSet, args []string) error {
	if err := set.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	showCmd := cli.newFlagSet("show")
	showNumber := showCmd.String("number", "", "The module number.")
	deleteCmd := cli.newFlagSet("delete")
	deleteNumber := deleteCmd.String("number", "", "The module number.")
	addCmd := cli.newFormFlags("add")
	editCmd := cli.newFormFlags("edit")

	switch args[1] {
	case "list":
		return cli.list(ctx)
	case "show":
		if err := cli.parse(showCmd, args[2:]); err != nil {
			return err
		}
		if *showNumber == "" {
			showCmd.Usage()
			return errHelp
		}
		return cli.show(ctx, *showNumber)
	case "add":
		if err := cli.parse(addCmd.set, args[2:]); err != nil {
			return err
		}
		return cli.save(ctx, addCmd.form(), module.ModeAdd)
	case "edit":
		if err := cli.parse(editCmd.set, args[2:]); err != nil {
			return err
		}
		if *editCmd.number == "" {
			editCmd.set.Usage()
			return errHelp
		}
		if _, err := cli.svc.Get(ctx, *editCmd.number); err != nil {
			return err
		}
		return cli.save(ctx, editCmd.form(), module.ModeEdit)
	case "delete":
		if err := cli.parse(deleteCmd, args[2:]); err != nil {
			return err
		}
		if *deleteNumber == "" {
			deleteCmd.Usage()
			return errHelp
		}
		return cli.delete(ctx, *deleteNumber)
	case "watch":
		return cli.watch(ctx)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) list(ctx context.Context) error {
	mods, err := cli.svc.List(ctx)
	if err != nil {
		return err
	}
	return cli.printModules(mods)
}

func (cli *commandLine) show(ctx context.Context, number string) error {
	mod, err := cli.svc.Get(ctx, number)
	if err == module.ErrNotFound {
		if suggestions := cli.suggest(ctx, core.CleanString(number)); len(suggestions) > 0 {
			fmt.Fprintf(cli.out, "did you mean %s?\n", strings.Join(suggestions, ", "))
		}
	}
	if err != nil {
		return err
	}
	return cli.printModules([]module.Module{mod})
}

// suggest returns the stored numbers closest to number, best match first.
func (cli *commandLine) suggest(ctx context.Context, number string) []string {
	mods, err := cli.svc.List(ctx)
	if err != nil {
		return nil
	}
	type match struct {
		number string
		ratio  float64
	}
	matches := make([]match, 0)
	for _, m := range mods {
		matcher := difflib.NewMatcher(strings.Split(strings.ToUpper(number), ""), strings.Split(strings.ToUpper(m.Number), ""))
		if ratio := matcher.Ratio(); ratio >= suggestionCutoff {
			matches = append(matches, match{number: m.Number, ratio: ratio})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })

	numbers := make([]string, 0, maxSuggestions)
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		numbers = append(numbers, matches[i].number)
	}
	return numbers
}

func (cli *commandLine) save(ctx context.Context, form module.Form, mode module.Mode) error {
	state := module.NewListState(ctx, cli.svc, cli.validator)
	defer state.Close()

	mod, err := state.Save(form, mode)
	if err != nil {
		return err
	}
	if err = cli.svc.Flush(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "module %s saved\n", mod.Number)
	return nil
}

func (cli *commandLine) delete(ctx context.Context, number string) error {
	mod, err := cli.svc.Get(ctx, number)
	if err != nil {
		return err
	}

	state := module.NewListState(ctx, cli.svc, cli.validator)
	defer state.Close()

	if err = state.Delete(mod); err != nil {
		return err
	}
	if err = cli.svc.Flush(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "module %s deleted\n", mod.Number)
	return nil
}

// watch prints the list on every change until ctx is done.
func (cli *commandLine) watch(ctx context.Context) error {
	state := module.NewListState(ctx, cli.svc, cli.validator)
	defer state.Close()

	f, ok := cli.out.(*os.File)
	redraw := ok && isTerminalFunc(int(f.Fd()))
	for mods := range state.AllModules() {
		if redraw {
			fmt.Fprint(cli.out, clearScreen)
		}
		if err := cli.printModules(mods); err != nil {
			return err
		}
	}
	return state.Err()
}

func (cli *commandLine) printModules(mods []module.Module) error {
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tTITLE\tZP\tLB\tAVERAGE")
	for _, m := range mods {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.Number, m.Title, module.FormatGrade(m.ZPNote), module.FormatGrade(m.LBNote), module.FormatAverage(m.AverageGrade()))
	}
	return w.Flush()
}

// printError prints err for the user; validation errors read `field: message`.
func printError(w io.Writer, err error) {
	if vErr, ok := err.(*core.ValidationError); ok && len(vErr.Fields) > 0 {
		for _, fErr := range vErr.Fields {
			fmt.Fprintf(w, "%s: %s\n", fErr.Field, fErr.Error)
		}
		return
	}
	fmt.Fprintf(w, "error: %s\n", err)
}
