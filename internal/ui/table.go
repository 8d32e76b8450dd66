package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"tessdl/pkg/models"
)

// RenderTree prints tree entries as a table of path, size and type
func RenderTree(w io.Writer, entries []models.TreeEntry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Path", "Size", "Type"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, e := range entries {
		table.Append([]string{e.Path, formatSize(e), typeLabel(e)})
	}

	table.Render()
}

func formatSize(e models.TreeEntry) string {
	if !e.IsFile() {
		return "-"
	}
	return fmt.Sprintf("%d", e.Size)
}

func typeLabel(e models.TreeEntry) string {
	label := e.TypeName()
	if !supportsColor {
		return label
	}
	switch label {
	case "file":
		return color.GreenString(label)
	case "dir":
		return color.CyanString(label)
	default:
		return color.YellowString(label)
	}
}
