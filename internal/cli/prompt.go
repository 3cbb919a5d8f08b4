package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Neev4n/rawsh/internal/editor"
)

// newPrompt draws "<cwd> $ " after clearing the current row, with the path part
// in light green when out supports colour.
func newPrompt(out io.Writer) editor.PromptFunc {

	style := lipgloss.NewRenderer(out).NewStyle().Foreground(lipgloss.Color("10"))

	return func() string {
		dir, err := os.Getwd()
		if err != nil {
			dir = "?"
		}
		return "\r" + ansi.EraseEntireLine + style.Render(dir+" $") + " "
	}
}
