package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/Houeta/transitlink/internal/link"
	"github.com/Houeta/transitlink/internal/models"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Pipeline drives one batch run: resolve every entry, build its link and
// collect the records for the output writer.
type Pipeline struct {
	log      *slog.Logger
	resolver *Resolver
	domain   string // Map-application domain, e.g. "yandex.ru"
}

// NewPipeline creates a Pipeline over the given resolver.
func NewPipeline(log *slog.Logger, resolver *Resolver, domain string) *Pipeline {
	return &Pipeline{
		log:      log,
		resolver: resolver,
		domain:   domain,
	}
}

// Run processes entries sequentially and returns one link record per entry.
// A progress bar is shown on stderr when it is a terminal.
func (p *Pipeline) Run(ctx context.Context, entries []models.AddressEntry) []models.LinkRecord {
	var bar *progressbar.ProgressBar
	if len(entries) > 0 && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(entries),
			progressbar.OptionSetDescription("Resolving addresses"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	records := make([]models.LinkRecord, 0, len(entries))
	for _, entry := range entries {
		target := entry.Target
		if coords := p.resolver.Resolve(ctx, entry); coords != nil {
			target = coords.String()
		}

		records = append(records, models.LinkRecord{
			Address: entry.Label,
			Link:    link.TransitRoute(target, p.domain),
		})

		if bar != nil {
			if err := bar.Add(1); err != nil {
				p.log.DebugContext(ctx, "Failed to advance progress bar", "error", err)
			}
		}
	}

	return records
}
