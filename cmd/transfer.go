package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/furnish/internal/config"
	"github.com/lepinkainen/furnish/internal/datastore"
	"github.com/lepinkainen/furnish/internal/transfer"
	"github.com/spf13/viper"
)

// Export formats
const (
	FormatDelimited = "delimited"
	FormatJSON      = "json"
	FormatYAML      = "yaml"
)

// ExportCmd writes the inventory to a file
type ExportCmd struct {
	File   string `short:"f" help:"Output file (default from export.file)"`
	Format string `help:"Output format" enum:"delimited,json,yaml" default:"delimited"`
}

func (e *ExportCmd) Run() error {
	path := exportPath(e.File, e.Format)

	return withStore(func(store datastore.Store) error {
		switch e.Format {
		case FormatJSON:
			written, err := transfer.ExportJSON(store, path, config.OverwriteFiles)
			return reportWrite(path, written, err)
		case FormatYAML:
			written, err := transfer.ExportYAML(store, path, config.OverwriteFiles)
			return reportWrite(path, written, err)
		default:
			count, err := transfer.ExportToDelimitedFile(store, path)
			if err != nil {
				return err
			}
			printf("Exported %d records to %s\n", count, path)
			return nil
		}
	})
}

// exportPath picks the target file. When no file is given the configured
// default is used with its extension swapped to match the format.
func exportPath(file, format string) string {
	if file != "" {
		return file
	}

	path := config.ExportFile
	switch format {
	case FormatJSON, FormatYAML:
		return strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
	default:
		return path
	}
}

func reportWrite(path string, written bool, err error) error {
	if err != nil {
		return err
	}
	if !written {
		slog.Warn("File exists, not overwriting (use --overwrite)", "file", path)
		return nil
	}
	printf("Exported to %s\n", path)
	return nil
}

// ImportCmd upserts records from a semicolon-delimited file
type ImportCmd struct {
	File string `short:"f" help:"Input file (default from import.file)"`
}

func (i *ImportCmd) Run() error {
	path := i.File
	if path == "" {
		path = config.ImportFile
	}
	if path == "" {
		return fmt.Errorf("input file is required (provide via --file flag or import.file in config)")
	}

	return withStore(func(store datastore.Store) error {
		summary, err := transfer.ImportFromDelimitedFile(store, path)
		if err != nil {
			return err
		}
		printf("Imported %s: %d added, %d updated\n", path, summary.Added, summary.Updated)
		return nil
	})
}

// PublishCmd pushes the whole inventory to a Datasette instance
type PublishCmd struct {
	URL       string  `help:"Datasette base URL (default from datasette.url)"`
	Token     string  `help:"API token (default from datasette.token or DATASETTE_TOKEN)"`
	Database  string  `help:"Remote database name (default from datasette.database)"`
	Table     string  `help:"Remote table name (default from datasette.table)"`
	BatchSize int     `help:"Rows per request (default from datasette.batchsize)"`
	RPS       float64 `name:"rps" help:"Requests per second, 0 for unlimited (default from datasette.rps)" default:"-1"`
}

func (p *PublishCmd) Run() error {
	p.applyDefaults()
	if p.URL == "" {
		return fmt.Errorf("datasette URL is required (provide via --url flag or datasette.url in config)")
	}

	client := datastore.NewDatasetteClient(p.URL, p.Token,
		datastore.WithBatchSize(p.BatchSize),
		datastore.WithRequestsPerSecond(p.RPS),
	)
	if err := client.Connect(); err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	return withStore(func(store datastore.Store) error {
		items, err := store.ReadAll()
		if err != nil {
			return err
		}

		sent, err := client.Publish(context.Background(), p.Database, p.Table, items)
		if err != nil {
			return err
		}
		printf("Published %d records to %s/%s\n", sent, p.Database, p.Table)
		return nil
	})
}

func (p *PublishCmd) applyDefaults() {
	if p.URL == "" {
		p.URL = viper.GetString("datasette.url")
	}
	if p.Token == "" {
		p.Token = viper.GetString("datasette.token")
	}
	if p.Database == "" {
		p.Database = viper.GetString("datasette.database")
	}
	if p.Table == "" {
		p.Table = viper.GetString("datasette.table")
	}
	if p.BatchSize == 0 {
		p.BatchSize = viper.GetInt("datasette.batchsize")
	}
	if p.RPS < 0 {
		p.RPS = viper.GetFloat64("datasette.rps")
	}
}
