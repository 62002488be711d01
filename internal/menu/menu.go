// Package menu implements the interactive text front end over a notebook collection.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/theAliTajik/Notebook/internal/apperr"
	"github.com/theAliTajik/Notebook/internal/notebook"
)

const clearScreen = "\033[H\033[2J"

// errQuit ends the session without an error.
var errQuit = errors.New("quit")

// Menu drives the notebook, note and note-detail views on a line-oriented stream.
type Menu struct {
	coll   *notebook.Collection
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger
	st     styles
}

// New creates a menu reading commands from in and rendering to out.
func New(coll *notebook.Collection, in io.Reader, out io.Writer, logger *slog.Logger) *Menu {
	return &Menu{
		coll:   coll,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
		st:     newStyles(out),
	}
}

// Run shows the notebook selection view until the user quits, input ends or
// ctx is cancelled. Quitting and end of input return nil.
func (m *Menu) Run(ctx context.Context) error {
	err := m.selectNotebook(ctx)
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (m *Menu) selectNotebook(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.clear()

		if m.coll.Len() == 0 {
			m.println(m.st.help.Render("No notebooks found. Please create a new notebook."))
			if err := m.createNotebook(); err != nil {
				return err
			}
			continue
		}

		names := m.coll.Names()
		m.println(m.st.title.Render("Select a notebook (enter 0 to create a new one):"))
		for i, name := range names {
			m.printf("%d) %s\n", i+1, name)
		}
		m.println(m.st.help.Render("q) Quit"))

		choice, err := m.prompt("Enter choice: ")
		if err != nil {
			return err
		}
		switch choice = strings.TrimSpace(choice); {
		case choice == "0":
			if err := m.createNotebook(); err != nil {
				return err
			}
		case strings.EqualFold(choice, "q"):
			return errQuit
		default:
			n, ok := index(choice, len(names))
			if !ok {
				continue
			}
			nb, found := m.coll.Get(names[n])
			if !found {
				continue
			}
			if err := m.notebookView(ctx, nb); err != nil {
				return err
			}
		}
	}
}

// createNotebook prompts for a name and creates the notebook. Invalid names
// are reported and the caller re-prompts.
func (m *Menu) createNotebook() error {
	name, err := m.prompt("Enter notebook name: ")
	if err != nil {
		return err
	}
	if _, err := m.coll.Create(name); err != nil {
		if errors.Is(err, apperr.ErrInvalidName) {
			m.println(m.st.err.Render(fmt.Sprintf("Invalid notebook name %q.", name)))
			return nil
		}
		return err
	}
	m.logger.Debug("menu: notebook created", slog.String("notebook", name))
	return nil
}

func (m *Menu) notebookView(ctx context.Context, nb *notebook.Notebook) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.clear()
		m.println(m.st.title.Render("Notebook: "+nb.Name()) + "\n")
		m.println("Select a note (enter 0 to go back):")
		titles := nb.ListNotes()
		for i, title := range titles {
			m.printf("%d) %s\n", i+1, title)
		}
		m.println("N) Create new note")

		choice, err := m.prompt("Enter choice: ")
		if err != nil {
			return err
		}
		switch choice = strings.TrimSpace(choice); {
		case choice == "0":
			return nb.Save()
		case strings.EqualFold(choice, "n"):
			title, err := m.prompt("Enter note title: ")
			if err != nil {
				return err
			}
			body, err := m.prompt("Enter note body:\n")
			if err != nil {
				return err
			}
			if err := nb.CreateNote(title, body); err != nil {
				if !m.invalidText(err) {
					return err
				}
			}
		default:
			n, ok := index(choice, len(titles))
			if !ok {
				continue
			}
			if err := m.noteView(ctx, nb, titles[n]); err != nil {
				return err
			}
		}
	}
}

func (m *Menu) noteView(ctx context.Context, nb *notebook.Notebook, title string) error {
	body, _ := nb.FindNote(title)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.clear()
		m.printf("%s %s\n%s\n%s\n\n", m.st.title.Render("Title:"), title, m.st.title.Render("Body:"), body)
		m.println("1) Edit\n2) Rename\n3) Delete\n0) Back")

		choice, err := m.prompt("Enter choice: ")
		if err != nil {
			return err
		}
		switch strings.TrimSpace(choice) {
		case "0":
			return nil
		case "1":
			newBody, err := m.prompt("Enter new body:\n")
			if err != nil {
				return err
			}
			if err := nb.EditNote(title, newBody); err != nil {
				if m.invalidText(err) {
					continue
				}
				return err
			}
			body = newBody
		case "2":
			newTitle, err := m.prompt("Enter new title: ")
			if err != nil {
				return err
			}
			if err := nb.RenameNote(title, newTitle); err != nil {
				if m.invalidText(err) {
					continue
				}
				return m.missing(err)
			}
			title = newTitle
		case "3":
			if err := nb.DeleteNote(title); err != nil {
				return m.missing(err)
			}
			m.println(m.st.success.Render("Deleted " + strconv.Quote(title) + "."))
			return nil
		}
	}
}

// missing reports a note that disappeared since it was listed and returns to
// the notebook view. Other errors are passed through.
func (m *Menu) missing(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		m.println(m.st.err.Render("Note no longer exists."))
		return nil
	}
	return err
}

// invalidText reports input that cannot be stored and returns true for it.
func (m *Menu) invalidText(err error) bool {
	if !errors.Is(err, apperr.ErrInvalidText) {
		return false
	}
	m.println(m.st.err.Render("Text must be valid UTF-8."))
	return true
}

// prompt writes label and reads one line without its line ending. A final
// line without a newline is returned as is; io.EOF is returned only when no
// input is left.
func (m *Menu) prompt(label string) (string, error) {
	m.printf("%s", label)
	line, err := m.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (m *Menu) clear() {
	m.printf("%s", clearScreen)
}

func (m *Menu) println(s string) {
	_, _ = fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(m.out, format, args...)
}

// index converts a 1-based menu choice to a slice index.
func index(choice string, n int) (int, bool) {
	i, err := strconv.Atoi(choice)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}
