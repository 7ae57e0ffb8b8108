// Command ayagraph is the CLI for the corpus toolkit. It verifies and
// inspects the per-chapter JSON dataset, exports snapshots, converts the
// Tanzil XML distribution, builds word graphs, and serves the REST API.
package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/talebmz/ayagraph/core/corpus"
	"github.com/talebmz/ayagraph/core/export"
	"github.com/talebmz/ayagraph/core/graph"
	"github.com/talebmz/ayagraph/core/quran"
	"github.com/talebmz/ayagraph/internal/logging"
	"github.com/talebmz/ayagraph/internal/server"
	"github.com/talebmz/ayagraph/internal/sqlite"
	"github.com/talebmz/ayagraph/internal/tanzil"
)

const version = "0.1.0"

// CLI defines the command-line interface for ayagraph.
var CLI struct {
	// Global flags
	Data      string `name:"data" short:"d" help:"Dataset directory with surah_<n>.json files" default:"./data" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info"`
	LogFormat string `name:"log-format" help:"Log format (json, text)" default:"json"`

	// Command groups (noun-first organization)
	Corpus  CorpusGroup  `cmd:"" help:"Corpus operations (verify, stats, show)"`
	Export  ExportGroup  `cmd:"" help:"Snapshot export operations"`
	Convert ConvertGroup `cmd:"" help:"Source format conversion"`
	Graph   GraphGroup   `cmd:"" help:"Word graph operations"`
	Serve   ServeCmd     `cmd:"" help:"Start REST API server"`
	Version VersionCmd   `cmd:"" help:"Print version information"`
}

// CorpusGroup contains corpus inspection operations.
type CorpusGroup struct {
	Verify CorpusVerifyCmd `cmd:"" help:"Audit the dataset without building"`
	Stats  CorpusStatsCmd  `cmd:"" help:"Build the corpus and print statistics"`
	Show   CorpusShowCmd   `cmd:"" help:"Show a chapter, verse, or verse range"`
}

// ExportGroup contains snapshot export operations.
type ExportGroup struct {
	Snapshot ExportSnapshotCmd `cmd:"" help:"Export the full corpus as JSON (or .json.xz)"`
	Chapter  ExportChapterCmd  `cmd:"" help:"Export one chapter as JSON (or .json.xz)"`
	Sqlite   ExportSqliteCmd   `cmd:"" help:"Export the full corpus as a SQLite database"`
}

// ConvertGroup contains source conversion operations.
type ConvertGroup struct {
	Tanzil ConvertTanzilCmd `cmd:"" help:"Convert a Tanzil XML file to the JSON dataset"`
}

// GraphGroup contains word graph operations.
type GraphGroup struct {
	Stats GraphStatsCmd `cmd:"" help:"Build the word graph and print statistics"`
}

// buildCorpus loads and builds the corpus from the global data directory.
func buildCorpus() (*corpus.Corpus, error) {
	c, err := corpus.NewCorpus(CLI.Data)
	if err != nil {
		return nil, err
	}
	if err := c.Build(); err != nil {
		return nil, err
	}
	return c, nil
}

// CorpusVerifyCmd audits the dataset.
type CorpusVerifyCmd struct {
	Hashes bool `help:"Print the BLAKE3 hash of each valid chapter document"`
}

func (c *CorpusVerifyCmd) Run() error {
	loader, err := corpus.NewLoader(CLI.Data)
	if err != nil {
		return err
	}
	report := loader.Verify()

	fmt.Printf("Valid chapters:  %d / %d\n", report.ValidChapters, quran.TotalChapters)
	fmt.Printf("Total verses:    %d\n", report.TotalVerses)
	if len(report.Missing) > 0 {
		fmt.Printf("Missing:         %v\n", report.Missing)
	}
	for _, inv := range report.Invalid {
		fmt.Printf("Invalid chapter %d: %s\n", inv.Number, inv.Reason)
	}
	if c.Hashes {
		numbers := make([]int, 0, len(report.Hashes))
		for n := range report.Hashes {
			numbers = append(numbers, n)
		}
		sort.Ints(numbers)
		for _, n := range numbers {
			fmt.Printf("  %3d  %s\n", n, report.Hashes[n])
		}
	}
	if !report.Complete() {
		return fmt.Errorf("dataset incomplete: %d valid of %d chapters", report.ValidChapters, quran.TotalChapters)
	}
	fmt.Println("Dataset complete.")
	return nil
}

// CorpusStatsCmd builds the corpus and prints statistics.
type CorpusStatsCmd struct {
	PerChapter bool `help:"Print word counts per chapter"`
}

func (c *CorpusStatsCmd) Run() error {
	cor, err := buildCorpus()
	if err != nil {
		return err
	}

	fmt.Printf("Chapters: %d\n", cor.TotalChapters())
	fmt.Printf("Verses:   %d\n", cor.TotalVerses())
	fmt.Printf("Words:    %d\n", cor.TotalWords())

	if c.PerChapter {
		counts, err := cor.WordCountByChapter()
		if err != nil {
			return err
		}
		for n := 1; n <= cor.TotalChapters(); n++ {
			fmt.Printf("  %3d  %6d\n", n, counts[n])
		}
	}
	return nil
}

// CorpusShowCmd prints a chapter, verse, or verse range.
type CorpusShowCmd struct {
	Ref        string `arg:"" help:"Reference: chapter, chapter:verse, or chapter:start-end (e.g. 2, 2:255, 2:1-5)"`
	Buckwalter bool   `help:"Print Buckwalter transliteration of each word"`
}

func (c *CorpusShowCmd) Run() error {
	ref, err := quran.ParseRef(c.Ref)
	if err != nil {
		return err
	}

	cor, err := buildCorpus()
	if err != nil {
		return err
	}
	chapter, err := cor.Chapter(ref.Chapter)
	if err != nil {
		return err
	}

	fmt.Printf("%d. %s (%d verses)\n", chapter.Number, chapter.Name, chapter.VerseCount())
	for _, v := range chapter.Verses {
		if !ref.Contains(v.Chapter, v.Number) {
			continue
		}
		fmt.Printf("%d:%d  %s\n", v.Chapter, v.Number, v.Text)
		if c.Buckwalter {
			filter, err := cor.Filter()
			if err != nil {
				return err
			}
			byVerse, err := filter.ByVerse(v.Chapter, v.Number)
			if err != nil {
				return err
			}
			var parts []string
			for _, w := range byVerse.Get() {
				parts = append(parts, w.Buckwalter)
			}
			fmt.Printf("      %s\n", strings.Join(parts, " "))
		}
	}
	return nil
}

// ExportSnapshotCmd exports the full corpus.
type ExportSnapshotCmd struct {
	Out string `required:"" help:"Output path (.json or .json.xz)" type:"path"`
}

func (c *ExportSnapshotCmd) Run() error {
	cor, err := buildCorpus()
	if err != nil {
		return err
	}
	snap, err := export.NewExporter(cor).BuildSnapshot()
	if err != nil {
		return err
	}
	if err := export.WriteFile(c.Out, snap); err != nil {
		return err
	}
	fmt.Printf("Snapshot %s written to %s (%d words)\n", snap.Metadata.SnapshotID, c.Out, snap.Metadata.TotalWords)
	return nil
}

// ExportChapterCmd exports one chapter.
type ExportChapterCmd struct {
	Number int    `arg:"" help:"Chapter number (1-114)"`
	Out    string `required:"" help:"Output path (.json or .json.xz)" type:"path"`
}

func (c *ExportChapterCmd) Run() error {
	cor, err := buildCorpus()
	if err != nil {
		return err
	}
	snap, err := export.NewExporter(cor).BuildChapterSnapshot(c.Number)
	if err != nil {
		return err
	}
	if err := export.WriteFile(c.Out, snap); err != nil {
		return err
	}
	fmt.Printf("Chapter %d written to %s (%d words)\n", c.Number, c.Out, snap.Metadata.TotalWords)
	return nil
}

// ExportSqliteCmd exports the full corpus as a SQLite database.
type ExportSqliteCmd struct {
	Out string `required:"" help:"Output database path" type:"path"`
}

func (c *ExportSqliteCmd) Run() error {
	cor, err := buildCorpus()
	if err != nil {
		return err
	}
	snap, err := export.NewExporter(cor).BuildSnapshot()
	if err != nil {
		return err
	}
	if err := export.WriteSQLite(c.Out, snap); err != nil {
		return err
	}
	fmt.Printf("SQLite snapshot written to %s (driver: %s)\n", c.Out, sqlite.DriverType())
	return nil
}

// ConvertTanzilCmd converts Tanzil XML to the JSON dataset.
type ConvertTanzilCmd struct {
	XML string `arg:"" help:"Path to the Tanzil XML file" type:"existingfile"`
	Out string `required:"" help:"Output dataset directory" type:"path"`
}

func (c *ConvertTanzilCmd) Run() error {
	n, err := tanzil.Convert(c.XML, c.Out)
	if err != nil {
		return err
	}
	fmt.Printf("Converted %d chapters to %s\n", n, c.Out)
	return nil
}

// GraphStatsCmd builds the word graph and prints statistics.
type GraphStatsCmd struct {
	Chapter    int  `help:"Restrict the graph to one chapter (0 = whole corpus)"`
	Roots      bool `help:"Connect words sharing a root"`
	Lemmas     bool `help:"Connect words sharing a lemma"`
	Normalized bool `help:"Connect words sharing a normalized form" default:"true" negatable:""`
	MinSize    int  `help:"Minimum connected component size to report" default:"2"`
}

func (c *GraphStatsCmd) Run() error {
	if !c.Roots && !c.Lemmas && !c.Normalized {
		return fmt.Errorf("no relation types selected (enable --roots, --lemmas, or --normalized)")
	}

	cor, err := buildCorpus()
	if err != nil {
		return err
	}

	filter, err := cor.Filter()
	if err != nil {
		return err
	}
	if c.Chapter > 0 {
		filter, err = filter.ByChapter(c.Chapter)
		if err != nil {
			return err
		}
	}
	words := filter.Get()

	g, err := graph.NewGraphBuilder().BuildFromWords(words, c.Roots, c.Lemmas, c.Normalized)
	if err != nil {
		return err
	}

	fmt.Printf("Nodes: %d\n", g.NodeCount())
	fmt.Printf("Edges: %d\n", g.EdgeCount())

	components := graph.ConnectedComponents(g, c.MinSize)
	fmt.Printf("Components (>= %d nodes): %d\n", c.MinSize, len(components))
	for i, comp := range components {
		if i >= 10 {
			fmt.Printf("  ... and %d more\n", len(components)-10)
			break
		}
		fmt.Printf("  component %d: %d nodes (e.g. %s)\n", i+1, len(comp), comp[0].Text)
	}
	return nil
}

// ServeCmd starts the REST API server.
type ServeCmd struct {
	Port           int      `help:"HTTP server port" default:"8080"`
	AllowedOrigins []string `help:"Allowed CORS origins (empty = allow all)"`
}

func (c *ServeCmd) Run() error {
	cor, err := buildCorpus()
	if err != nil {
		return err
	}
	srv, err := server.New(server.Config{
		Port:           c.Port,
		AllowedOrigins: c.AllowedOrigins,
	}, cor)
	if err != nil {
		return err
	}
	return srv.Start()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("ayagraph version %s\n", version)
	fmt.Printf("  snapshot format %s\n", export.FormatVersion)
	fmt.Printf("  sqlite driver %s\n", sqlite.DriverType())
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ayagraph"),
		kong.Description("Quran text analysis toolkit - corpus, filters, relations, word graph"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	format := logging.FormatJSON
	if CLI.LogFormat == "text" {
		format = logging.FormatText
	}
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), format)

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
