package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/lepinkainen/furnish/internal/config"
	"github.com/lepinkainen/furnish/internal/datastore"
	"github.com/lepinkainen/furnish/internal/errors"
	"github.com/lepinkainen/furnish/internal/furniture"
)

// InitCmd creates the database file and table
type InitCmd struct{}

func (i *InitCmd) Run() error {
	return withStore(func(store datastore.Store) error {
		if err := store.Initialize(); err != nil {
			return err
		}
		printf("Initialized %s\n", config.DBFile)
		return nil
	})
}

// AddCmd adds one record. Numbers are taken as text so every field gets the same checks as the browser form.
type AddCmd struct {
	Name        string `short:"n" help:"Unique furniture name"`
	Description string `short:"d" help:"Description"`
	Price       string `short:"p" help:"Price, e.g. 49.99"`
	Height      string `help:"Height"`
	Width       string `help:"Width"`
	Length      string `help:"Length"`
}

func (a *AddCmd) Run() error {
	f, err := furniture.Parse(a.Name, a.Description, a.Price, a.Height, a.Width, a.Length)
	if err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}

	return withStore(func(store datastore.Store) error {
		if err := store.Add(f.Name, f.Description, f.Price, f.Height, f.Width, f.Length); err != nil {
			return err
		}
		printf("Added %s\n", f.Name)
		return nil
	})
}

// ListCmd prints every record
type ListCmd struct {
	JSON bool `help:"Print records as JSON"`
}

func (l *ListCmd) Run() error {
	return withStore(func(store datastore.Store) error {
		items, err := store.ReadAll()
		if err != nil {
			return err
		}

		if l.JSON {
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		return writeTable(items)
	})
}

func writeTable(items []furniture.Furniture) error {
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tDESCRIPTION\tPRICE\tHEIGHT\tWIDTH\tLENGTH")
	for _, f := range items {
		fields := f.Fields()
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", fields[0], fields[1], fields[2], fields[3], fields[4], fields[5])
	}
	return w.Flush()
}

// ShowCmd prints one record
type ShowCmd struct {
	Name string `arg:"" help:"Furniture name (exact, case-sensitive)"`
}

func (s *ShowCmd) Run() error {
	return withStore(func(store datastore.Store) error {
		f, err := store.ReadByName(s.Name)
		if err != nil {
			return err
		}

		values := f.Fields()
		for i, column := range furniture.Columns {
			printf("%-12s %s\n", column+":", values[i])
		}
		return nil
	})
}

// UpdateCmd overwrites the given fields of an existing record; omitted fields keep their value
type UpdateCmd struct {
	Name        string `arg:"" help:"Furniture name (exact, case-sensitive)"`
	Description string `short:"d" help:"New description"`
	Price       string `short:"p" help:"New price"`
	Height      string `help:"New height"`
	Width       string `help:"New width"`
	Length      string `help:"New length"`
}

func (u *UpdateCmd) Run() error {
	return withStore(func(store datastore.Store) error {
		current, err := store.ReadByName(u.Name)
		if errors.IsNotFoundError(err) {
			slog.Warn("No furniture matched, nothing updated", "name", u.Name)
			return nil
		}
		if err != nil {
			return err
		}

		fields := current.Fields()
		for i, value := range []string{"", u.Description, u.Price, u.Height, u.Width, u.Length} {
			if value != "" {
				fields[i] = value
			}
		}

		f, err := furniture.ParseFields(fields)
		if err != nil {
			return err
		}
		if err := f.Validate(); err != nil {
			return err
		}

		affected, err := store.Update(f)
		if err != nil {
			return err
		}
		if affected == 0 {
			slog.Warn("No furniture matched, nothing updated", "name", f.Name)
			return nil
		}

		printf("Updated %s\n", f.Name)
		return nil
	})
}

// DeleteCmd removes a record
type DeleteCmd struct {
	Name string `arg:"" help:"Furniture name (exact, case-sensitive)"`
}

func (d *DeleteCmd) Run() error {
	return withStore(func(store datastore.Store) error {
		affected, err := store.DeleteByName(d.Name)
		if err != nil {
			return err
		}
		if affected == 0 {
			slog.Warn("No furniture matched, nothing deleted", "name", d.Name)
			return nil
		}

		printf("Deleted %s\n", d.Name)
		return nil
	})
}
