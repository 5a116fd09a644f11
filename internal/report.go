package internal

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"blog-lab/domain"
)

// WriteStoreReport renders the current store contents as three compact
// tables. The demo binary prints it on shutdown, since nothing survives
// the process.
func WriteStoreReport(w io.Writer, users []domain.User, posts []domain.Post, comments []domain.Comment) {
	fmt.Fprintln(w, color.Bold.Render("Users"))
	userTable := newTable(w, []string{"ID", "Name", "Email", "Age"})
	for _, u := range users {
		age := ""
		if u.Age != nil {
			age = strconv.Itoa(*u.Age)
		}
		userTable.Append([]string{shortID(u.ID), u.Name, u.Email, age})
	}
	userTable.Render()

	fmt.Fprintln(w, color.Bold.Render("Posts"))
	postTable := newTable(w, []string{"ID", "Title", "Published", "Author"})
	for _, p := range posts {
		postTable.Append([]string{shortID(p.ID), p.Title, strconv.FormatBool(p.Published), shortID(p.Author)})
	}
	postTable.Render()

	fmt.Fprintln(w, color.Bold.Render("Comments"))
	commentTable := newTable(w, []string{"ID", "Text", "Author", "Post"})
	for _, c := range comments {
		commentTable.Append([]string{shortID(c.ID), c.Text, shortID(c.Author), shortID(c.Post)})
	}
	commentTable.Render()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

// shortID keeps the first 8 characters for readability.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
