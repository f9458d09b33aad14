package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v2"

	"prazo/internal/config"
	"prazo/internal/deadline"
	"prazo/internal/storage"
	"prazo/internal/ui"
)

// newApp creates the CLI application. With no subcommand it runs the TUI.
func newApp(out io.Writer) *cli.App {
	app := &cli.App{
		Name:    "prazo",
		Usage:   "Acompanhe prazos por urgência",
		Version: Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				EnvVars: []string{config.EnvConfigPath},
				Usage:   "Path to config.toml",
			},
		},
		Action: tuiAction,
		Commands: []*cli.Command{
			addCmd(),
			listCmd(),
			deleteCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// env is everything a command needs, built once per invocation.
type env struct {
	cfg   config.Config
	store *deadline.Store
	db    *storage.SQLite // nil when running on memory
	close func() error
}

func loadConfig(c *cli.Context) (config.Config, error) {
	path := c.String("config")
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openEnv opens durable storage, falling back to memory when it is
// unavailable, and builds the deadline store on top of it.
func openEnv(cfg config.Config) *env {
	var (
		kv      storage.KV
		closeFn = func() error { return nil }
	)
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Printf("failed to open database, keeping deadlines in memory: %v", err)
		kv = storage.NewMemory()
	} else {
		kv = db
		closeFn = db.Close
	}
	return &env{
		cfg:   cfg,
		store: deadline.NewStore(kv),
		db:    db,
		close: closeFn,
	}
}

func tuiAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// The alternate screen owns stdout; logs go to a file or nowhere.
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "prazo")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	e := openEnv(cfg)
	defer e.close()

	refresh, err := cfg.Refresh()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	stop := e.store.Start(ctx, refresh)
	defer stop()

	if err := ui.Run(e.store, cfg); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// captureAdder remembers the record created through it.
type captureAdder struct {
	ui.Adder
	last deadline.Deadline
}

func (a *captureAdder) Add(subject, recipient, raw string) (deadline.Deadline, bool) {
	d, ok := a.Adder.Add(subject, recipient, raw)
	a.last = d
	return d, ok
}

func addCmd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a deadline",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Aliases: []string{"s"}, Usage: "Assunto"},
			&cli.StringFlag{Name: "recipient", Aliases: []string{"r"}, Usage: "Destinatário"},
			&cli.StringFlag{Name: "deadline", Aliases: []string{"d"}, Usage: `Prazo: "N dias" ou DD/MM/AAAA`},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			e := openEnv(cfg)
			defer e.close()

			form := ui.Form{
				Subject:   c.String("subject"),
				Recipient: c.String("recipient"),
				Deadline:  c.String("deadline"),
			}
			adder := &captureAdder{Adder: e.store}
			if err := form.Submit(adder); err != nil {
				return cli.Exit(err.Error(), 1)
			}

			d := adder.last
			today := e.store.Today()
			fmt.Fprintf(c.App.Writer, "Prazo adicionado: %s • %s → %s • %s • %s • %s\n",
				d.ID, d.Subject, d.Recipient, ui.FormatDue(d.DueDate),
				ui.StatusLabel(d.Status), ui.RelativeDescription(d.DueDate, today))
			return nil
		},
	}
}

// listItem is the JSON shape printed by `list --json`.
type listItem struct {
	deadline.Deadline
	Label       string `json:"label"`
	Description string `json:"description"`
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List deadlines ordered by due date",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			e := openEnv(cfg)
			defer e.close()

			view := ui.SortedView(e.store.List())
			today := e.store.Today()

			if c.Bool("json") {
				items := make([]listItem, 0, len(view))
				for _, d := range view {
					items = append(items, listItem{
						Deadline:    d,
						Label:       ui.StatusLabel(d.Status),
						Description: ui.RelativeDescription(d.DueDate, today),
					})
				}
				return outputJSON(c.App.Writer, items)
			}

			if len(view) == 0 {
				fmt.Fprintln(c.App.Writer, "Nenhum prazo cadastrado.")
				return nil
			}
			fmt.Fprintln(c.App.Writer, renderTable(view, today))
			if line := lastWrite(e.db); line != "" {
				fmt.Fprintln(c.App.Writer, line)
			}
			return nil
		},
	}
}

// lastWrite reports when the deadline list was last saved, or "" when
// there is no database or nothing has been saved yet.
func lastWrite(db *storage.SQLite) string {
	if db == nil {
		return ""
	}
	at, ok, err := db.UpdatedAt(deadline.DefaultKey)
	if err != nil {
		log.Printf("failed to read last write time: %v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return "Última gravação: " + at.Local().Format("02/01/2006 15:04")
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderTable(view []deadline.Deadline, today time.Time) string {
	rows := make([][]string, 0, len(view))
	for _, d := range view {
		rows = append(rows, []string{
			d.ID,
			d.Subject,
			d.Recipient,
			ui.FormatDue(d.DueDate),
			ui.StatusLabel(d.Status),
			ui.RelativeDescription(d.DueDate, today),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "ASSUNTO", "DESTINATÁRIO", "PRAZO", "SITUAÇÃO", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true)
			}
			if col == 4 && row >= 0 && row < len(view) {
				return ui.StatusStyle(view[row].Status).Padding(0, 1)
			}
			return cellStyle
		})
	return t.String()
}

func deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a deadline by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: prazo delete <id>", 1)
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			e := openEnv(cfg)
			defer e.close()

			id := c.Args().First()
			if _, ok := e.store.Get(id); ok {
				e.store.Delete(id)
				fmt.Fprintf(c.App.Writer, "Prazo removido: %s\n", id)
			}
			return nil
		},
	}
}

func outputJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
