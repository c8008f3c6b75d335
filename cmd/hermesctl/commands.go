package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hermes/internal/latest"
	"hermes/internal/people"
	"hermes/internal/recentlyviewed"
)

func newPeopleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "people <email>...",
		Short: "Resolve emails into person or group records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			records := s.People.Resolve(cmd.Context(), people.Emails(args...)...)
			printRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
}

func newRecentCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "Show the recently viewed documents and projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			if err := s.RecentlyViewed.FetchAll(cmd.Context()); err != nil {
				return fmt.Errorf("recently viewed unavailable: %w", err)
			}
			printItems(cmd.OutOrStdout(), s.RecentlyViewed.Index(), s.People.Cache(), time.Now())
			return nil
		},
	}
}

func newLatestCmd(opts *options) *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the latest documents of a dashboard tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := latest.ParseTab(tab)
			if err != nil {
				return err
			}
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			docs, err := s.Latest.Docs(cmd.Context(), t)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DOC\tTITLE\tSTATUS\tOWNER\tMODIFIED")
			for _, d := range docs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.DocNumber, d.Title, d.Status, ownerName(s.People.Cache(), d.Identity()), d.ModifiedAgo)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(latest.TabNew), "new, in-review or reviewed")
	return cmd
}

func printRecords(out io.Writer, records []people.Record) {
	yellow := color.New(color.FgYellow)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tKIND\tNAME")
	for _, r := range records {
		if r.Placeholder {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Email, r.Kind, yellow.Sprint("(unavailable)"))
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Email, r.Kind, r.Name)
	}
	w.Flush()
}

func printItems(out io.Writer, items []recentlyviewed.Item, cache *people.Cache, now time.Time) {
	cyan := color.New(color.FgCyan)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tTITLE\tOWNER\tVIEWED")
	for _, it := range items {
		viewed := humanize.RelTime(time.Unix(it.ViewedTime, 0), now, "ago", "from now")
		switch it.Kind {
		case recentlyviewed.KindProject:
			fmt.Fprintf(w, "%s\t%s\t\t%s\n", cyan.Sprint("project"), it.Project.Title, viewed)
		default:
			kind := "doc"
			if it.IsDraft {
				kind = "draft"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", kind, it.Document.Title, ownerName(cache, it.Identity()), viewed)
		}
	}
	w.Flush()
}

func ownerName(cache *people.Cache, email string) string {
	if email == "" {
		return ""
	}
	r, ok := cache.Best(email)
	if !ok || r.Placeholder || r.Name == "" {
		return email
	}
	return r.Name
}
