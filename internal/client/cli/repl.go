package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	Entries(ctx context.Context) error
	AddEntry(ctx context.Context) error
	EditEntry(ctx context.Context, id string) error
	DeleteEntry(ctx context.Context, id string) error
	Attach(ctx context.Context, path string) error
	ToggleMedia(url string)
	Pick(lat, lng float64)
	Find(ctx context.Context, query string) error
	Story(ctx context.Context, note string) error
	Pins()
}

const helpText = `Available commands:
  entries              list archive entries
  add                  create an archive entry (prompts for fields)
  edit <id>            edit an archive entry
  delete <id>          delete an archive entry (asks for confirmation)
  attach <path>        queue a local file for the next save
  unmedia <url>        mark/unmark a stored asset for removal on next save
  pick <lat> <lng>     choose a spot on the map
  find <place>         search for a place and move there
  story <text>         save a story note at the chosen spot
  pins                 list this session's story pins
  exit | quit          leave the program`

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on exec. Unknown commands are reported back. The
// loop exits on scanner EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, scanner *bufio.Scanner, out io.Writer, exec execIface) {
	fmt.Fprintln(out, "Story Atlas (type 'help' for commands)")

	for {
		fmt.Fprint(out, "storyatlas > ")
		if !scanner.Scan() {
			return
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			fmt.Fprintln(out, helpText)

		case "entries":
			err = exec.Entries(ctx)

		case "add":
			err = exec.AddEntry(ctx)

		case "edit":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: edit <id>")
				continue
			}
			err = exec.EditEntry(ctx, args[0])

		case "delete":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: delete <id>")
				continue
			}
			err = exec.DeleteEntry(ctx, args[0])

		case "attach":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: attach <path>")
				continue
			}
			err = exec.Attach(ctx, args[0])

		case "unmedia":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: unmedia <url>")
				continue
			}
			exec.ToggleMedia(args[0])

		case "pick":
			if len(args) != 2 {
				fmt.Fprintln(out, "Usage: pick <lat> <lng>")
				continue
			}
			lat, latErr := strconv.ParseFloat(args[0], 64)
			lng, lngErr := strconv.ParseFloat(args[1], 64)
			if latErr != nil || lngErr != nil {
				fmt.Fprintln(out, "Coordinates must be decimal numbers")
				continue
			}
			exec.Pick(lat, lng)

		case "find":
			err = exec.Find(ctx, strings.Join(args, " "))

		case "story":
			err = exec.Story(ctx, strings.Join(args, " "))

		case "pins":
			exec.Pins()

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintf(out, "Unknown command: %s (type 'help')\n", cmd)
		}

		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}
