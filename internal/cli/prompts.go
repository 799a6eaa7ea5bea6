package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"recipe-keeper/internal/export"
)

// stdinIsTerminal gates interactive prompts; tests replace it.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func promptTitle() (string, error) {
	var title string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Create New Recipe").
				Description("Enter recipe title:").
				Placeholder("e.g., Chocolate Cake").
				Value(&title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(title), nil
}

func promptExport() (path string, ext string, err error) {
	opts := make([]huh.Option[string], 0, len(export.Formats))
	for _, f := range export.Formats {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (*%s)", f.Name, f.Ext), f.Ext))
	}
	ext = export.Formats[0].Ext
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Export Recipes").
				Description("File to write (replaced if it exists)").
				Placeholder("recipes.txt").
				Value(&path),
			huh.NewSelect[string]().
				Title("Format").
				Options(opts...).
				Value(&ext),
		),
	)
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(path), ext, nil
}

func isAborted(err error) bool {
	return errors.Is(err, huh.ErrUserAborted)
}
