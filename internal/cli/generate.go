package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sisugv/sisugv/pkg/curriculum"
	"github.com/sisugv/sisugv/pkg/pipeline"
	"github.com/sisugv/sisugv/pkg/render"
	"github.com/sisugv/sisugv/pkg/sisu"
)

// generateFlags holds flags for the root (generate) command.
type generateFlags struct {
	year            int
	output          string
	blacklist       []string
	extradata       string
	alsoRecommended bool
	tableLabels     bool
	formats         []string
	json            bool
	dryRun          bool
	pick            bool

	lang     string
	retries  int
	refresh  bool
	noCache  bool
	cacheURL string
}

// generateCommand creates the root command, which turns one programme into
// a Graphviz file.
func (c *CLI) generateCommand() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   appName + " <programme-id>",
		Short: "Draw a Sisu degree programme as a Graphviz graph",
		Long: `Fetch a degree programme from the Sisu API and write its courses,
modules and prerequisites as a Graphviz DOT file.

Modules become nested clusters, courses become nodes and prerequisites
become edges: compulsory ones solid, recommended ones dashed (with
--also-recommended) and annotation-supplied ones dotted.`,
		Example: `  # Programme for the current year into <programme>_<year>.gv
  sisugv otm-1d25ee85-df98-4c03-b4ff-6cf8e4a85c7e

  # Year 2023, skipping two courses, with an annotation file
  sisugv otm-1d25ee85 -y 2023 -b COMP.CS.100 -b MATH.APP.110 -e extra.json

  # Render SVG next to the DOT file
  sisugv otm-1d25ee85 -o degree.gv --render svg

  # Pipe DOT straight into Graphviz
  sisugv otm-1d25ee85 -o - | dot -Tpdf > degree.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.generate(cmd, args[0], &f)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.year, "year", "y", time.Now().Year(), "academic year of the curriculum")
	fl.StringVarP(&f.output, "output", "o", "", `output file ("-" for stdout, default <programme>_<year>.gv)`)
	fl.StringArrayVarP(&f.blacklist, "blacklist", "b", nil, "module or course id/code to leave out (repeatable)")
	fl.StringVarP(&f.extradata, "extradata", "e", "", "annotation JSON file with icons and manual prerequisites")
	fl.BoolVarP(&f.alsoRecommended, "also-recommended", "a", false, "also draw recommended prerequisites")
	fl.BoolVar(&f.tableLabels, "table-labels", false, "use HTML table labels with wrapped names")
	fl.StringSliceVar(&f.formats, "render", nil, "also render the graph: svg, png")
	fl.BoolVar(&f.json, "json", false, "also write the graph as JSON next to the output")
	fl.BoolVar(&f.dryRun, "dry-run", false, "build the graph without writing any file")
	fl.BoolVar(&f.pick, "pick", false, "choose courses to leave out interactively")
	fl.StringVar(&f.lang, "lang", "", "preferred language for names (fi, en, sv)")
	fl.IntVar(&f.retries, "retries", 0, "retries for failed API requests")
	fl.BoolVar(&f.refresh, "refresh", false, "ignore cached responses and fetch fresh data")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the response cache")
	fl.StringVar(&f.cacheURL, "cache-url", "", "cache backend URL (redis://, mongodb://, file://)")

	return cmd
}

// merge folds the configuration into unset flags.
func (f *generateFlags) merge(cmd *cobra.Command, cfg Config) {
	changed := cmd.Flags().Changed
	if !changed("also-recommended") {
		f.alsoRecommended = cfg.AlsoRecommended
	}
	if !changed("table-labels") {
		f.tableLabels = cfg.TableLabels
	}
	if !changed("extradata") {
		f.extradata = cfg.ExtraData
	}
	if !changed("lang") {
		f.lang = cfg.Language
	}
	if !changed("retries") {
		f.retries = cfg.Retries
	}
	if !changed("cache-url") {
		f.cacheURL = cfg.CacheURL
	}
	f.blacklist = append(append([]string(nil), cfg.Blacklist...), f.blacklist...)
}

func (c *CLI) generate(cmd *cobra.Command, programmeID string, f *generateFlags) error {
	ctx := cmd.Context()
	f.merge(cmd, c.cfg)

	formats, err := render.ParseFormats(f.formats)
	if err != nil {
		return err
	}
	opts := pipeline.Options{
		ProgrammeID:     programmeID,
		Year:            f.year,
		Blacklist:       f.blacklist,
		AnnotationPath:  f.extradata,
		Output:          f.output,
		Stdout:          c.Out,
		AlsoRecommended: f.alsoRecommended,
		TableLabels:     f.tableLabels,
		Formats:         formats,
		JSON:            f.json,
		DryRun:          f.dryRun,
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	store := c.openCache(ctx, f.noCache, f.cacheURL)
	defer store.Close()

	client := sisu.NewClient(sisu.Config{
		BaseURL:          c.cfg.APIURL,
		UniversityID:     c.cfg.UniversityID,
		CurriculumPrefix: c.cfg.CurriculumPrefix,
		Language:         f.lang,
		Cache:            store,
		Refresh:          f.refresh,
		Retries:          f.retries,
		Logger:           c.Logger,
	})
	runner := pipeline.NewRunner(client, c.Logger)

	prog := newProgress(c.Logger)
	p, err := c.fetch(cmd, runner, programmeID, f.year)
	if err != nil {
		return err
	}
	prog.done("Fetched curriculum")

	if f.pick {
		picked, err := pickBlacklist(ctx, c.Err, p, opts.Blacklist)
		if err != nil {
			return err
		}
		opts.Blacklist = picked
	}

	result, err := runner.Process(ctx, p, opts)
	if err != nil {
		return err
	}
	c.report(result, opts)
	return nil
}

// fetch runs the fetch stage behind a spinner. In verbose mode the debug
// log already shows progress, so the spinner stays off.
func (c *CLI) fetch(cmd *cobra.Command, runner *pipeline.Runner, id string, year int) (*curriculum.Programme, error) {
	if c.verbose {
		return runner.Fetch(cmd.Context(), id, year)
	}
	spin := newSpinner(cmd.Context(), c.Err, fmt.Sprintf("Fetching %s (%d)...", id, year))
	spin.Start()
	p, err := runner.Fetch(cmd.Context(), id, year)
	spin.Stop()
	return p, err
}

func (c *CLI) report(r *pipeline.Result, opts pipeline.Options) {
	out := printer{c.Err}

	name := r.Programme.Name
	if name == "" {
		name = r.Programme.ID
	}
	switch {
	case opts.DryRun:
		out.info("Dry run for %s, nothing written", name)
	case opts.Output == pipeline.Stdout:
		out.success("Wrote %s to stdout", name)
	default:
		out.success("Generated %s", name)
		for _, path := range r.Files {
			out.file(path)
		}
	}
	out.stats(
		fmt.Sprintf("%d modules", r.Stats.Modules),
		fmt.Sprintf("%d courses", r.Stats.Courses),
		fmt.Sprintf("%d nodes", r.Stats.NodeCount),
		fmt.Sprintf("%d edges", r.Stats.EdgeCount),
	)
	if n := len(r.Removed); n > 0 {
		out.detail("%d courses blacklisted", n)
	}
	if n := len(r.UnmatchedBlacklist) + len(r.UnmatchedAnnotations); n > 0 {
		out.warning("%d identifiers matched nothing (see --verbose)", n)
	}
}
