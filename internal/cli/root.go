// Package cli wires the command-line surface to the resolution pipeline.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Houeta/transitlink/internal/cache"
	"github.com/Houeta/transitlink/internal/config"
	"github.com/Houeta/transitlink/internal/geocoding"
	"github.com/Houeta/transitlink/internal/input"
	"github.com/Houeta/transitlink/internal/metrics"
	"github.com/Houeta/transitlink/internal/models"
	"github.com/Houeta/transitlink/internal/output"
	"github.com/Houeta/transitlink/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const (
	defaultInput = "addresses.txt"
	previewLines = 5
)

type options struct {
	output   string
	format   string
	domain   string
	geocoder string
	apiKey   string
	prepend  string
	lang     string
	contact  string
	cache    string
	stats    bool
}

// NewRootCmd builds the transitlink root command. Config values act as flag
// defaults; flags always win.
func NewRootCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "transitlink [input]",
		Short: "Generate Yandex Maps public-transport deep links for a list of addresses",
		Long: `
transitlink reads a text file with one address per line, resolves each
address to coordinates through a cached chain of geocoding providers
(Yandex, Nominatim, Photon) and writes one transit-routing link per address.

Lines may embed an explicit override ("Address | lat,lon"), lines starting
with '#' are skipped.
`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := defaultInput
			if len(args) == 1 {
				inputPath = args[0]
			}
			return run(cmd, inputPath, opts, logger)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", cfg.Output, "output file path")
	cmd.Flags().StringVar(&opts.format, "format", cfg.Format,
		"output format: csv (Address,Link) or pairs (Address/Link per record)")
	cmd.Flags().StringVar(&opts.domain, "domain", cfg.Domain, "Yandex domain to use (yandex.ru or yandex.com)")
	cmd.Flags().StringVar(&opts.geocoder, "geocoder", cfg.Provider, "preferred geocoder: yandex, nominatim or photon")
	cmd.Flags().StringVar(&opts.apiKey, "apikey", cfg.APIKey, "Yandex Geocoder API key")
	cmd.Flags().StringVar(&opts.prepend, "prepend", cfg.AddrPrefix,
		`prefix prepended to addresses for geocoding context (e.g. "Москва, ")`)
	cmd.Flags().StringVar(&opts.lang, "lang", cfg.Lang, "geocoder language")
	cmd.Flags().StringVar(&opts.contact, "contact", cfg.Contact,
		"contact address sent to Nominatim in the User-Agent")
	cmd.Flags().StringVar(&opts.cache, "cache", cfg.CachePath, "coordinate cache file path")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "dump resolution metrics to stderr at exit")

	return cmd
}

func run(cmd *cobra.Command, inputPath string, opts *options, logger *slog.Logger) error {
	ctx := cmd.Context()

	format := output.Format(opts.format)
	if !format.Valid() {
		return fmt.Errorf("unsupported output format: %s", opts.format)
	}

	primary := geocoding.ProviderType(opts.geocoder)
	switch primary {
	case geocoding.ProviderTypeYandex, geocoding.ProviderTypeNominatim, geocoding.ProviderTypePhoton:
	default:
		return fmt.Errorf("unsupported geocoder: %s", opts.geocoder)
	}

	entries, encoding, err := input.ReadEntries(inputPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)

	cch := cache.Load(opts.cache, logger)
	logger.DebugContext(ctx, "Cache loaded", "path", opts.cache, "entries", cch.Len())

	providers := buildChain(primary, opts, logger)
	resolver := service.NewResolver(logger, cch, providers, appMetrics, opts.prepend)
	pipeline := service.NewPipeline(logger, resolver, opts.domain)

	records := pipeline.Run(ctx, entries)

	if err = output.Write(opts.output, format, records); err != nil {
		return err
	}

	// A failed cache write must not fail the run; the output is already on disk.
	if err = cch.Save(); err != nil {
		logger.WarnContext(ctx, "Failed to persist coordinate cache", "path", opts.cache, "error", err)
	}

	printSummary(cmd.OutOrStdout(), inputPath, opts.output, encoding, entries, records)

	if opts.stats {
		if err = metrics.Dump(reg, cmd.ErrOrStderr()); err != nil {
			logger.WarnContext(ctx, "Failed to dump metrics", "error", err)
		}
	}

	return nil
}

// buildChain instantiates the provider fallback chain. A provider that
// cannot be constructed (a missing Yandex key, most commonly) fails closed:
// it is dropped from the chain and the remaining providers take over.
func buildChain(primary geocoding.ProviderType, opts *options, logger *slog.Logger) []service.NamedProvider {
	var chain []service.NamedProvider
	for _, pt := range geocoding.FallbackOrder(primary) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:    pt,
			APIKey:  opts.apiKey,
			Lang:    opts.lang,
			Contact: opts.contact,
			Logger:  logger,
		})
		if err != nil {
			if errors.Is(err, geocoding.ErrYandexMissingKey) {
				logger.Info("Skipping Yandex provider, no API key configured")
			} else {
				logger.Warn("Skipping provider", "provider", pt, "error", err)
			}
			continue
		}
		chain = append(chain, service.NamedProvider{Name: string(pt), Provider: provider})
	}
	return chain
}

func printSummary(
	out io.Writer,
	inputPath, outputPath, encoding string,
	entries []models.AddressEntry,
	records []models.LinkRecord,
) {
	fmt.Fprintf(out, "Read %d addresses from %s (encoding: %s).\n", len(entries), inputPath, encoding)
	fmt.Fprintf(out, "Wrote %d rows to %s.\n", len(records), outputPath)

	if len(records) == 0 {
		return
	}
	fmt.Fprintln(out, "Preview:")
	for i, record := range records {
		if i == previewLines {
			break
		}
		fmt.Fprintf(out, "- %s => %s\n", record.Address, record.Link)
	}
}
