package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"ship-tracker-backend/internal/client"
	"ship-tracker-backend/internal/view"
)

func render(w io.Writer, st view.State) {
	if st.Error != nil {
		fmt.Fprintf(w, "! %s\n", joinNonEmpty(st.Error.Message, st.Error.Description))
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Location", "Dir", "Speed", "Violation", "Detected"})
	table.SetAutoWrapText(false)
	for _, r := range st.Page.Items {
		table.Append([]string{
			r.ID,
			r.Name,
			r.Location.Name,
			fmt.Sprintf("%.0f°", r.Direction),
			fmt.Sprintf("%.1f kn", r.Speed),
			r.Violation.Label,
			r.TimeDetected.Local().Format(time.DateTime),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "page", fmt.Sprintf("%d/%d", st.Page.Number, st.Page.TotalPages)})
	table.Render()

	fmt.Fprintln(w, summary(st))
}

func summary(st view.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d shown of %d filtered, %d loaded (server total %d)",
		len(st.Page.Items), st.Filtered, st.Stats.Total, st.Server.Total)
	if st.Server.HasMore {
		b.WriteString(", more on server")
	}
	if st.Status != client.StatusConnected {
		fmt.Fprintf(&b, ", status %s", st.Status)
	}
	if !st.LastUpdate.IsZero() {
		fmt.Fprintf(&b, ", updated %s", st.LastUpdate.Local().Format(time.TimeOnly))
	}
	return b.String()
}
