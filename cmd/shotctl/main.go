// Команда shotctl собирает локальные папки в шоты и печатает результат фильтра.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/ignatzorin/shotboard/internal/catalog"
	"github.com/ignatzorin/shotboard/internal/logger"
	"github.com/ignatzorin/shotboard/internal/models"
	"github.com/ignatzorin/shotboard/internal/source"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	preset  string
	covers  string
	asJSON  bool
	workers int
	verbose bool
	folders []string
	filter  Preset
	changed func(name string) bool
}

var errHelp = errors.New("help")

func parseFlags(args []string, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet("shotctl", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintln(errOut, "Использование: shotctl [флаги] <каталог>...")
		fs.PrintDefaults()
	}

	var o options
	fs.StringVar(&o.preset, "preset", "", "файл пресета фильтра (JSONC)")
	fs.StringVar(&o.covers, "covers", "", "JSON файл сохранённых обложек {shotId: fileName}")
	fs.BoolVar(&o.asJSON, "json", false, "вывести шоты в JSON")
	fs.IntVarP(&o.workers, "workers", "w", catalog.DefaultWorkers, "число параллельных чтений")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "подробный лог в stderr")

	fs.StringVar(&o.filter.Folder, "folder", "", "только шоты папки")
	fs.StringVar(&o.filter.Playlist, "playlist", "", "только шоты плейлиста из пресета")
	fs.BoolVar(&o.filter.InvertPlaylist, "invert-playlist", false, "исключить шоты плейлиста")
	fs.StringArrayVarP(&o.filter.Tags, "tag", "t", nil, "обязательный тег (флаг повторяется)")
	fs.BoolVar(&o.filter.InvertTags, "invert-tags", false, "исключить шоты со всеми тегами")
	fs.StringArrayVar(&o.filter.Advanced.Tags, "adv-tag", nil, "расширенный фильтр: шот должен иметь все теги")
	fs.StringArrayVar(&o.filter.Advanced.Playlists, "adv-playlist", nil, "расширенный фильтр: шот должен входить в каждый плейлист")
	fs.StringSliceVar(&o.filter.Advanced.Formats, "adv-format", nil, "расширенный фильтр: расширения файлов (png, mp4, html, ...)")
	fs.StringArrayVar(&o.filter.Advanced.Folders, "adv-folder", nil, "расширенный фильтр: любая из папок (флаг повторяется)")
	fs.StringVarP(&o.filter.Search, "search", "q", "", "поиск по ID, тексту и тегам")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return o, errHelp
		}
		return o, err
	}
	o.filter.Tags = compact(o.filter.Tags)
	o.filter.Advanced.Tags = compact(o.filter.Advanced.Tags)
	o.filter.Advanced.Playlists = compact(o.filter.Advanced.Playlists)
	o.filter.Advanced.Folders = compact(o.filter.Advanced.Folders)
	o.folders = fs.Args()
	if len(o.folders) == 0 {
		fs.Usage()
		return o, errors.New("не указан ни один каталог")
	}
	o.changed = fs.Changed
	return o, nil
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	opts, err := parseFlags(args, errOut)
	if errors.Is(err, errHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 2
	}

	if opts.verbose {
		logger.Init("debug", "text")
		logger.Log.SetOutput(errOut)
	} else {
		logger.Discard()
	}

	filter := Preset{}
	if opts.preset != "" {
		if filter, err = LoadPreset(opts.preset); err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}
	}
	filter = filter.Override(opts.filter, opts.changed)

	covers := models.ShotCovers{}
	if opts.covers != "" {
		if covers, err = loadCovers(opts.covers); err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}
	}

	shots, err := collect(ctx, opts.folders, covers, opts.workers, filter)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(shots); err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}
		return 0
	}
	for _, s := range shots {
		fmt.Fprintln(out, s.ID)
	}
	return 0
}

// collect собирает каталоги в один снимок и применяет фильтр.
func collect(ctx context.Context, dirs []string, covers models.ShotCovers, workers int, p Preset) ([]models.Shot, error) {
	agg := catalog.NewAggregator(workers)
	st := catalog.EmptyState()
	for _, dir := range dirs {
		descs, err := source.ScanDir(dir, "")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dir, err)
		}
		shots, err := agg.Aggregate(ctx, descs, covers)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dir, err)
		}
		if st, err = st.MergeShots(shots); err != nil {
			return nil, fmt.Errorf("%s: %w", dir, err)
		}
	}

	if p.ShotTags != nil {
		st.Tags = p.ShotTags
	}
	if p.Playlists != nil {
		st.Playlists = p.Playlists
	}
	return catalog.Filter(st.Shots, st.Bind(p.Context())), nil
}

func loadCovers(path string) (models.ShotCovers, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	covers := models.ShotCovers{}
	if err := json.Unmarshal(raw, &covers); err != nil {
		return nil, fmt.Errorf("covers %s: %w", path, err)
	}
	return covers, nil
}

// compact убирает пустые значения; "--tag ''" сбрасывает теги пресета.
func compact(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
