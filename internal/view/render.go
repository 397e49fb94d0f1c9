package view

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Renderer draws view snapshots as text.
type Renderer struct {
	// Colours enables ANSI styling.
	Colours bool
}

func (r Renderer) paint(c color.Color, s string) string {
	if !r.Colours {
		return s
	}
	return c.Render(s)
}

func (r Renderer) heading(w io.Writer, title string) {
	if r.Colours {
		title = color.New(color.FgCyan, color.OpBold).Render(title)
	}
	fmt.Fprintf(w, "== %s ==\n", title)
}

// RenderUsers writes the Users view.
func (r Renderer) RenderUsers(w io.Writer, s UsersState) {
	switch s.Status {
	case StatusLoading:
		fmt.Fprintln(w, "Loading users...")
		return
	case StatusError:
		fmt.Fprintln(w, r.paint(color.FgRed, s.Error))
		return
	}

	r.heading(w, "Users")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Name", "Email", "ID", ""})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")

	for i, u := range s.Users {
		action := "Delete"
		if s.Deleting[u.ID] {
			action = "Deleting..."
		}
		table.Append([]string{strconv.Itoa(i + 1), u.Name, u.Email, u.ID, action})
	}
	table.Render()

	if s.Registered {
		fmt.Fprintln(w, r.paint(color.FgRed, MsgAlreadyRegistered))
	}
}

// RenderChat writes the Chat view.
func (r Renderer) RenderChat(w io.Writer, s ChatState) {
	if s.Status == StatusLoading {
		fmt.Fprintln(w, "Loading chat...")
		return
	}

	r.heading(w, "Chat")

	for _, m := range s.Messages {
		fmt.Fprintf(w, "%s %s %s\n",
			r.paint(color.FgGray, m.CreatedAt.Local().Format("15:04")),
			r.paint(color.FgGreen, m.User+":"),
			m.Text,
		)
	}

	if s.Error != "" {
		fmt.Fprintln(w, r.paint(color.FgRed, s.Error))
	}
	if !s.CanSend() {
		fmt.Fprintln(w, r.paint(color.FgRed, MsgNoUsers))
		return
	}
	fmt.Fprintf(w, "Sending as %s\n", r.paint(color.FgYellow, s.Sender))
}
