package workbench

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/adbundle-go/pkg/adbundle/session"
)

const maxLineSize = 1 << 20

const helpText = `Commands:
  /new <xlsx> <image> <video>  start a new analysis task
  /list                        list tasks, newest first
  /open <id>                   switch to a task and show its history
  /history                     show the current task's history
  /help                        show this help
  /quit                        leave
Any other text is sent as a follow-up to the current task.`

// Run reads commands and follow-ups from in until /quit, end of input or
// context cancellation. Failed commands are reported and the loop goes on.
// Cancellation is noticed while waiting for input.
func (w *Workbench) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(in, done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s> ", w.prompt())

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case text, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return <-readErr
			}
			line = strings.TrimSpace(text)
		}

		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			w.followUp(ctx, out, line)
			continue
		}

		fields := strings.Fields(line)
		switch cmd, args := fields[0], fields[1:]; cmd {
		case "/quit", "/exit":
			return nil
		case "/help":
			fmt.Fprintln(out, helpText)
		case "/list":
			w.list(out)
		case "/open":
			if len(args) != 1 {
				fmt.Fprintln(out, "usage: /open <id>")
				continue
			}
			s, err := w.Open(args[0])
			if err != nil {
				fmt.Fprintf(out, "❌ %v\n", err)
				continue
			}
			printHistory(out, s)
		case "/history":
			if w.current == nil {
				fmt.Fprintf(out, "❌ %v\n", ErrNoTask)
				continue
			}
			printHistory(out, w.current)
		case "/new":
			if len(args) != 3 {
				fmt.Fprintln(out, "usage: /new <xlsx> <image> <video>")
				continue
			}
			s, err := w.Start(ctx, Inputs{Workbook: args[0], Image: args[1], Video: args[2]})
			if err != nil {
				fmt.Fprintf(out, "❌ %v\n", err)
				continue
			}
			fmt.Fprintf(out, "✅ task %s\n", s.ID)
			printHistory(out, s)
		default:
			fmt.Fprintf(out, "unknown command %s, try /help\n", cmd)
		}
	}
}

// readLines scans in on its own goroutine. The lines channel is closed at end
// of input, after the scan error (or nil) has been sent on the error channel.
// The goroutine stops sending once done is closed.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

func (w *Workbench) prompt() string {
	if w.current == nil {
		return ""
	}
	return w.current.ID
}

func (w *Workbench) followUp(ctx context.Context, out io.Writer, prompt string) {
	reply, err := w.Ask(ctx, prompt)
	if err != nil {
		fmt.Fprintf(out, "❌ reply failed: %v\n", err)
		return
	}
	printMessage(out, session.Message{Role: session.RoleModel, Content: reply})
}

func (w *Workbench) list(out io.Writer) {
	ids := w.store.List()
	if len(ids) == 0 {
		fmt.Fprintln(out, "no tasks yet")
		return
	}
	for _, id := range ids {
		marker := " "
		if w.current != nil && w.current.ID == id {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, id)
	}
}

func printHistory(out io.Writer, s *session.Session) {
	fmt.Fprintf(out, "📂 task %s\n", s.ID)
	for _, m := range s.History() {
		printMessage(out, m)
	}
}

func printMessage(out io.Writer, m session.Message) {
	fmt.Fprintf(out, "[%s]\n%s\n\n", m.Role, m.Content)
}
