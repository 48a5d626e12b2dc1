package ux

import (
	"fmt"
	"strings"

	"github.com/dansiegel/nuke/internal/config"
	"github.com/dansiegel/nuke/internal/history"
)

// RenderHistory prints recent invocations, newest first.
func RenderHistory(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(Out, "  %s(no runs recorded)%s\n", Dim, Reset)
		return
	}
	for _, e := range entries {
		color := Green
		if e.Status != history.StatusSucceeded {
			color = Red
		}
		fmt.Fprintf(Out, "  %s%s%s  %-20s %s%-10s%s %s\n",
			Dim, e.Start.Format("2006-01-02 15:04:05"), Reset,
			e.Tool+" "+e.Command, color, e.Status, Reset, e.Duration)
		if e.Error != "" {
			fmt.Fprintf(Out, "      %s%s%s\n", Dim, e.Error, Reset)
		}
	}
}

// RenderTools lists configured tools, their commands and options.
func RenderTools(cfg *config.Config, verbose bool) {
	for _, t := range cfg.Tools {
		desc := ""
		if t.Description != "" {
			desc = " — " + t.Description
		}
		fmt.Fprintf(Out, "%s%s%s%s %s(%s)%s\n", Bold, t.Name, Reset, desc, Dim, t.Executable, Reset)
		for _, c := range t.Commands {
			fmt.Fprintf(Out, "  %s%-14s%s %s\n", Cyan, c.Name, Reset, c.Description)
			if !verbose {
				continue
			}
			for _, o := range c.Options {
				var flags []string
				if o.Secret {
					flags = append(flags, "secret")
				}
				if o.Position != nil {
					flags = append(flags, fmt.Sprintf("position %d", *o.Position))
				}
				extra := ""
				if len(flags) > 0 {
					extra = " [" + strings.Join(flags, ", ") + "]"
				}
				fmt.Fprintf(Out, "      %-20s %s%-9s%s%s %s\n", o.Name, Dim, o.Kind, Reset, extra, o.Description)
			}
		}
	}
}
