package cli

import (
	"fmt"
	"strings"

	"recipe-keeper/internal/export"
	"recipe-keeper/internal/listing"
	"recipe-keeper/internal/model"
	"recipe-keeper/internal/richtext"
	"recipe-keeper/internal/session"

	"github.com/spf13/cobra"
)

type recipeView struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	Text         string `json:"text"`
	Tags         string `json:"tags"`
}

type listRow struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Tags  string `json:"tags"`
	Label string `json:"label"`
}

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the recipes table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := openSession(cmd.Context(), app); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"db":        app.cfg.DB,
					"configDir": app.cfg.Dir,
				},
			})
		},
	}
}

func newNewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new [title]",
		Short: "Create a recipe with empty ingredients, instructions and tags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) == 1 {
				title = args[0]
			} else {
				if !stdinIsTerminal() {
					return writeErr(cmd, errMissing("title", "pass it as an argument"))
				}
				t, err := promptTitle()
				if err != nil {
					if isAborted(err) {
						fmt.Fprintln(cmd.ErrOrStderr(), "Recipe creation cancelled.")
						return nil
					}
					return writeErr(cmd, err)
				}
				title = t
			}

			ctrl, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := ctrl.Create(cmd.Context(), title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": id, "title": strings.TrimSpace(title)},
			})
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	var search string
	var sortName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes (search matches title or tags and ignores --sort)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if cmd.Flags().Changed("sort") {
				mode, err := model.ParseSortMode(sortName)
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := ctrl.SetSort(cmd.Context(), mode); err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := ctrl.SetSearch(cmd.Context(), search); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": rows(ctrl.Entries())})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Substring of title or tags")
	cmd.Flags().StringVar(&sortName, "sort", "", "alphabetical|newest|oldest (default from config)")
	return cmd
}

func rows(entries []listing.Entry) []listRow {
	out := make([]listRow, 0, len(entries))
	for _, e := range entries {
		out = append(out, listRow{ID: e.ID, Title: e.Title, Tags: e.Tags, Label: e.Label()})
	}
	return out
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			ctrl, err := openAt(cmd, app, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": viewOf(ctrl, id)})
		},
	}
}

func newSaveCmd(app *App) *cobra.Command {
	var ingredients, instructions, tags string

	cmd := &cobra.Command{
		Use:   "save <id>",
		Short: "Edit fields of a recipe and save all of them",
		Long: strings.TrimSpace(`
Loads the recipe, replaces the fields given as flags and writes ingredients,
instructions and tags back together. --instructions replaces the plain text;
formatting on characters that did not change is kept.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			ctrl, err := openAt(cmd, app, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			ed := ctrl.Editor()
			if cmd.Flags().Changed("ingredients") {
				ed.SetIngredients(ingredients)
			}
			if cmd.Flags().Changed("instructions") {
				ed.EditInstructions(instructions)
			}
			if cmd.Flags().Changed("tags") {
				ed.SetTags(tags)
			}
			if err := ctrl.Save(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": viewOf(ctrl, id)})
		},
	}
	cmd.Flags().StringVar(&ingredients, "ingredients", "", "Ingredients text")
	cmd.Flags().StringVar(&instructions, "instructions", "", "Instructions text")
	cmd.Flags().StringVar(&tags, "tags", "", "Tags text")
	return cmd
}

func newFormatCmd(app *App) *cobra.Command {
	var start, end int
	var bold, italic, underline bool
	var color, highlight string
	var size int

	cmd := &cobra.Command{
		Use:   "format <id>",
		Short: "Apply character formats to a range of the instructions",
		Long: strings.TrimSpace(`
Offsets count characters of the instructions text, end exclusive. An empty
range changes nothing. Colors are hex (#rrggbb) or a name such as red.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			var formats []richtext.Format
			if bold {
				formats = append(formats, richtext.Bold{})
			}
			if italic {
				formats = append(formats, richtext.Italic{})
			}
			if underline {
				formats = append(formats, richtext.Underline{})
			}
			if cmd.Flags().Changed("color") {
				f, err := richtext.NewTextColor(color)
				if err != nil {
					return writeErr(cmd, err)
				}
				formats = append(formats, f)
			}
			if cmd.Flags().Changed("highlight") {
				f, err := richtext.NewHighlightColor(highlight)
				if err != nil {
					return writeErr(cmd, err)
				}
				formats = append(formats, f)
			}
			if cmd.Flags().Changed("size") {
				f, err := richtext.NewFontSize(size)
				if err != nil {
					return writeErr(cmd, err)
				}
				formats = append(formats, f)
			}
			if len(formats) == 0 {
				return writeErr(cmd, errMissing("format", "use --bold, --italic, --underline, --color, --highlight or --size"))
			}

			ctrl, err := openAt(cmd, app, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			sel := richtext.Selection{Start: start, End: end}
			applied := false
			for _, f := range formats {
				if ctrl.Editor().Format(sel, f) {
					applied = true
				}
			}
			if applied {
				if err := ctrl.Save(cmd.Context()); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"recipe":  viewOf(ctrl, id),
					"applied": applied,
				},
			})
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "First character offset")
	cmd.Flags().IntVar(&end, "end", 0, "Offset after the last character")
	cmd.Flags().BoolVar(&bold, "bold", false, "Bold")
	cmd.Flags().BoolVar(&italic, "italic", false, "Italic")
	cmd.Flags().BoolVar(&underline, "underline", false, "Underline")
	cmd.Flags().StringVar(&color, "color", "", "Text color")
	cmd.Flags().StringVar(&highlight, "highlight", "", "Highlight (background) color")
	cmd.Flags().IntVar(&size, "size", 0, "Font size in points")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var formatName string

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Write every recipe to one file",
		Long: strings.TrimSpace(`
Writes a Title/Ingredients/Tags/Instructions block per recipe. The format
only picks the default extension; the content is the same for all of them.
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := export.FormatFor(formatName)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown export format: %s (want txt|html|md)", formatName))
			}
			path := ""
			if len(args) == 1 {
				path = strings.TrimSpace(args[0])
			} else {
				if !stdinIsTerminal() {
					return writeErr(cmd, errMissing("path", "pass it as an argument"))
				}
				p, ext, err := promptExport()
				if err != nil {
					if isAborted(err) {
						fmt.Fprintln(cmd.ErrOrStderr(), "Export cancelled.")
						return nil
					}
					return writeErr(cmd, err)
				}
				path = p
				f, _ = export.FormatFor(ext)
			}
			if path == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Export cancelled.")
				return nil
			}
			path = f.WithExt(path)

			ctrl, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := ctrl.Export(cmd.Context(), path); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": path, "format": strings.TrimPrefix(f.Ext, ".")},
			})
		},
	}
	cmd.Flags().StringVar(&formatName, "format", "txt", "txt|html|md (extension only)")
	return cmd
}

// openAt opens a session with id loaded in the editor.
func openAt(cmd *cobra.Command, app *App, id int64) (*session.Controller, error) {
	ctrl, err := openSession(cmd.Context(), app)
	if err != nil {
		return nil, err
	}
	if err := ctrl.Select(cmd.Context(), id); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func viewOf(ctrl *session.Controller, id int64) recipeView {
	ed := ctrl.Editor()
	b := ed.Body()
	v := recipeView{
		ID:           id,
		Ingredients:  b.Ingredients,
		Instructions: b.Instructions,
		Text:         ed.Instructions().PlainText(),
		Tags:         b.Tags,
	}
	if i := listing.IndexOf(ctrl.Entries(), id); i >= 0 {
		v.Title = ctrl.Entries()[i].Title
	}
	return v
}
