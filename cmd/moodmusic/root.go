package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"Mood-Music-Go/pkg/config"
	"Mood-Music-Go/pkg/db"
	"Mood-Music-Go/pkg/metrics"
	"Mood-Music-Go/pkg/music"
	"Mood-Music-Go/pkg/output"
	"Mood-Music-Go/pkg/recommend"
)

const moodPrompt = "Describe your mood or preference: "

// app carries the process dependencies so tests can swap them.
type app struct {
	cfg        config.Config
	in         io.Reader
	out        io.Writer
	errw       io.Writer
	isTerminal func() bool
	newService func(context.Context, config.Config, *metrics.Metrics) (music.Service, error)
	// rnd is nil outside tests.
	rnd recommend.Rand
}

type cliOptions struct {
	Count       int
	Legacy      bool
	Service     string
	JSON        bool
	NoColor     bool
	Verbose     bool
	MetricsFile string
	History     string
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// execute runs the command line and maps the outcome to an exit code.
func execute(ctx context.Context, a *app, args []string) int {
	opts := &cliOptions{}
	cmd := newRootCmd(a, opts)
	cmd.SetArgs(args)
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errw)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	var ue usageError
	switch {
	case errors.As(err, &ue):
		fmt.Fprintln(a.errw, ue.msg)
		return exitUsage
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(a.errw, "Interrupted (Ctrl-C)")
		return exitInterrupted
	default:
		a.output(opts).Error("Error: " + err.Error())
		return exitFailure
	}
}

func newRootCmd(a *app, opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moodmusic [mood...]",
		Short: "Recommend songs that match how you feel",
		Long: `Describe your mood and get a handful of songs to match.

The mood is read from the arguments, from piped stdin, or from an
interactive prompt, in that order. Keywords pick a genre; anything else
gets songs from a randomly chosen genre.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRecommend(cmd.Context(), opts, args)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error() + "\n(run with --help for usage)"}
	})

	pf := cmd.PersistentFlags()
	pf.BoolVar(&opts.JSON, "json", false, "Output machine-readable JSON")
	pf.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	addRecommendFlags(cmd.Flags(), a.cfg, opts)

	cmd.AddCommand(newGenresCmd(a, opts), newVersionCmd(a, opts))
	return cmd
}

func addRecommendFlags(fs *pflag.FlagSet, cfg config.Config, opts *cliOptions) {
	fs.SortFlags = false
	fs.IntVarP(&opts.Count, "count", "k", cfg.SampleSize, "Number of songs to recommend")
	fs.BoolVar(&opts.Legacy, "legacy-match", false, "Only check the first genre before falling back")
	fs.StringVar(&opts.Service, "service", cfg.Service, "Catalog: spotify, applemusic, youtube, soundcloud, tidal, aggregate")
	fs.StringVar(&opts.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this file on exit")
	fs.StringVar(&opts.History, "history", cfg.DatabasePath, "Append results to this SQLite database")
}

func (a *app) output(opts *cliOptions) *output.Output {
	return output.New(output.Options{
		JSON:    opts.JSON,
		Verbose: opts.Verbose,
		NoColor: opts.NoColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb",
		Out:     a.out,
		Err:     a.errw,
	})
}

func (a *app) configureLogging(opts *cliOptions) {
	logger := log.StandardLogger()
	logger.SetOutput(a.errw)
	logger.SetFormatter(&log.TextFormatter{DisableColors: opts.NoColor})
	level := log.WarnLevel
	if lvl, err := log.ParseLevel(a.cfg.LogLevel); a.cfg.LogLevel != "" && err == nil {
		level = lvl
	}
	if opts.Verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
}

func (a *app) runRecommend(ctx context.Context, opts *cliOptions, args []string) error {
	a.configureLogging(opts)
	out := a.output(opts)

	k := opts.Count
	if k < 0 {
		return usageError{msg: fmt.Sprintf("--count must be positive, got %d", k)}
	}
	if k == 0 {
		k = recommend.DefaultSampleSize
	}
	mode, err := recommend.ParseMatchMode(a.cfg.MatchMode)
	if err != nil {
		return usageError{msg: err.Error()}
	}
	if opts.Legacy {
		mode = recommend.Legacy
	}

	cfg := a.cfg
	cfg.Service = strings.ToLower(opts.Service)
	var m *metrics.Metrics
	if opts.MetricsFile != "" {
		m = metrics.New()
		defer writeMetrics(out, m, opts.MetricsFile)
	}
	svc, err := a.newService(ctx, cfg, m)
	if err != nil {
		if errors.Is(err, config.ErrUnknownService) {
			return usageError{msg: err.Error()}
		}
		return err
	}

	mood, err := a.readMood(ctx, out, args)
	if err != nil {
		return err
	}

	engineOpts := []recommend.Option{
		recommend.WithSampleSize(k),
		recommend.WithMatchMode(mode),
		recommend.WithMetrics(m),
	}
	if a.rnd != nil {
		engineOpts = append(engineOpts, recommend.WithRand(a.rnd))
	}
	engine := recommend.New(svc, engineOpts...)
	out.Debug(fmt.Sprintf("mood %q, %d songs, %s matching, %s catalog", mood, engine.SampleSize(), engine.Mode(), cfg.Service))

	res, err := engine.Recommend(ctx, mood)
	if err != nil {
		return err
	}
	if opts.History != "" {
		saveHistory(ctx, out, opts.History, res)
	}

	if opts.JSON {
		return out.EmitJSON(res)
	}
	out.Tracks(res.Tracks)
	return nil
}

// readMood takes the mood from args, then piped stdin, then a prompt.
func (a *app) readMood(ctx context.Context, out *output.Output, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if !a.isTerminal() {
		return readPiped(a.in), nil
	}
	out.Prompt(moodPrompt)
	line := make(chan string, 1)
	go func() {
		s, _ := bufio.NewReader(a.in).ReadString('\n')
		line <- strings.TrimRight(s, "\r\n")
	}()
	select {
	case s := <-line:
		return s, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func readPiped(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " ")
}

// saveHistory and writeMetrics report failures as warnings; the songs have
// already been chosen by then.
func saveHistory(ctx context.Context, out *output.Output, path string, res recommend.Result) {
	d, err := db.New(path)
	if err != nil {
		log.WithError(err).Debug("open history")
		out.Warn("Warning: history unavailable: " + err.Error())
		return
	}
	defer d.Close()
	rec := db.Recommendation{ID: res.ID, Mood: res.Mood, Genre: res.Genre, Fallback: res.Fallback, Tracks: res.Tracks}
	if err := d.SaveRecommendation(ctx, rec); err != nil {
		log.WithError(err).Debug("save history")
		out.Warn("Warning: history not saved: " + err.Error())
	}
}

func writeMetrics(out *output.Output, m *metrics.Metrics, path string) {
	if err := m.WriteTextfile(path); err != nil {
		log.WithError(err).WithField("path", path).Debug("write metrics")
		out.Warn("Warning: metrics not written: " + err.Error())
	}
}
