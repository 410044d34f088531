package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/eagraf/fnconsole/core/filetree"
	"github.com/eagraf/fnconsole/internal/lifecycle"
	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
)

func renderCards(w io.Writer, cards []*lifecycle.Lifecycle) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "(no functions)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Owner", "Repo", "Branch", "Status", "Version", "Action"})
	for _, card := range cards {
		s := card.Snapshot()
		status := string(s.Status)
		if !s.State.IsValid {
			status += " (invalid)"
		}
		t.AppendRow(table.Row{
			s.State.FunctionName,
			s.State.Owner,
			s.State.Repo,
			s.State.Branch,
			status,
			s.State.InstalledVersion,
			s.Action(),
		})
	}
	t.Render()
}

// renderTree prints a file tree with the selection key of every file.
func renderTree(w io.Writer, nodes []*filetree.Node) {
	if len(nodes) == 0 {
		fmt.Fprintln(w, "(no files)")
		return
	}

	l := list.NewWriter()
	l.SetOutputMirror(w)
	l.SetStyle(list.StyleConnectedLight)
	appendNodes(l, nodes)
	l.Render()
}

func appendNodes(l list.Writer, nodes []*filetree.Node) {
	for _, n := range nodes {
		if n.IsDir() {
			l.AppendItem(n.Name + "/")
			l.Indent()
			appendNodes(l, n.Children)
			l.UnIndent()
			continue
		}
		l.AppendItem(fmt.Sprintf("%s [%s]", n.Name, n.Key))
	}
}

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		key, value, ok := strings.Cut(h, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q, expected key=value", h)
		}
		headers[key] = value
	}
	return headers, nil
}
