// Command hemusic extracts music from Humongous Entertainment game
// data files and writes each track as an audio file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/scummtools/hemusic"
	"github.com/scummtools/hemusic/internal/encode"
)

var CLI struct {
	GameData  string `arg:"" name:"game-data" help:"Data file containing music to extract. It should always have an .HE4 file extension (e.g. PUTTZOO.HE4)." optional:""`
	OutputDir string `arg:"" name:"output-dir" help:"Directory to write music files to." optional:""`

	Format     string `help:"Output audio format." short:"f" default:"wav"`
	Prefix     string `help:"Prefix to add to filenames." short:"p" default:"Song"`
	UseSongIDs bool   `help:"Use the song IDs found in the data file (default is to number starting at 1 instead)."`
	List       bool   `help:"List tracks without extracting." short:"l"`
	Jobs       int    `help:"Number of tracks to extract in parallel." default:"1"`
	Verbose    bool   `help:"Display debug info." short:"v"`
	Version    bool   `help:"Show version information."`

	MP3Quality string `name:"mp3-quality" help:"Quality or bitrate of MP3 encoding. Either supply an integer to encode with a variable bitrate quality preset or supply a string like 320k to encode with a constant bitrate." default:"1" group:"MP3 Options"`

	TitlePrefix string `help:"Prefix to prepend to song IDs in their title metadata (songs are identified by numbers instead of names)." default:"Song " group:"Metadata Options"`
	Artist      string `help:"Soundtrack composer." group:"Metadata Options"`
	Album       string `help:"Album name." group:"Metadata Options"`
	Year        string `help:"Year released." group:"Metadata Options"`
	Genre       string `help:"Music genre." default:"Soundtrack" group:"Metadata Options"`
	Comment     string `help:"Comment to add to each song." group:"Metadata Options"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("hemusic"),
		kong.Description("Extract music from Humongous Entertainment game data files."),
		kong.UsageOnError(),
	)

	if CLI.Version {
		info := hemusic.GetVersionInfo()
		fmt.Printf("hemusic %s (commit %s, built %s)\n", info.Version, info.GitCommit, info.BuildTime)
		os.Exit(0)
	}

	if CLI.GameData == "" || CLI.OutputDir == "" {
		fmt.Fprintln(os.Stderr, "hemusic: <game-data> and <output-dir> are required")
		os.Exit(1)
	}

	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := run(logger); err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	song, err := hemusic.Open(CLI.GameData,
		hemusic.WithLogger(logger),
		hemusic.WithParallelism(CLI.Jobs),
	)
	if err != nil {
		return err
	}
	defer song.Close()

	logger.Info("opened container",
		"file", CLI.GameData,
		"schema", song.Schema.String(),
		"tracks", len(song.Descriptors()))

	if CLI.List {
		listTracks(song)
		return nil
	}

	if err := os.MkdirAll(CLI.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	results, err := song.ExtractAll(context.Background())
	if err != nil {
		return err
	}

	quality, bitrate := parseMP3Quality(CLI.MP3Quality)

	var written, skipped, failed int
	for i, res := range results {
		if res.Skipped() {
			skipped++
			continue
		}

		name := i + 1
		if CLI.UseSongIDs {
			name = int(res.Descriptor.ID)
		}
		path := filepath.Join(CLI.OutputDir, fmt.Sprintf("%s%d.%s", CLI.Prefix, name, CLI.Format))

		opts := encode.Options{
			Format:  CLI.Format,
			Quality: quality,
			Bitrate: bitrate,
			Metadata: encode.Metadata{
				Title:   fmt.Sprintf("%s%d", CLI.TitlePrefix, name),
				Artist:  CLI.Artist,
				Album:   CLI.Album,
				Date:    CLI.Year,
				Genre:   CLI.Genre,
				Comment: CLI.Comment,
				Track:   i + 1,
			},
		}

		logger.Info("writing file", "path", path, "rate", res.Track.Rate, "bytes", len(res.Track.Payload))
		if err := encode.WriteTrack(context.Background(), path, res.Track.Payload, res.Track.Rate, opts); err != nil {
			logger.Error("encoding failed", "path", path, "error", err)
			failed++
			continue
		}
		written++
	}

	logger.Info("done", "written", written, "skipped", skipped, "failed", failed)
	if failed > 0 && written == 0 {
		return fmt.Errorf("all %d encodable tracks failed to encode", failed)
	}
	return nil
}

// parseMP3Quality interprets the --mp3-quality value: an integer means
// a VBR quality preset, anything else is passed through as a CBR
// bitrate string (e.g. "320k").
func parseMP3Quality(s string) (quality int, bitrate string) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, ""
	}
	return 0, s
}

func listTracks(song *hemusic.SongFile) {
	fmt.Printf("%-8s %-12s %-12s\n", "ID", "Offset", "Size")
	for _, desc := range song.Descriptors() {
		fmt.Printf("%-8d %-12d %-12d\n", desc.ID, desc.Offset, desc.Size)
	}
}
