package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"Mood-Music-Go/pkg/genre"
	"Mood-Music-Go/pkg/recommend"
)

type genreInfo struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Fallback bool     `json:"fallback"`
}

func newGenresCmd(a *app, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the genres and the keywords that select them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := a.output(opts)
			var infos []genreInfo
			for _, g := range recommend.New(nil).Catalog().Genres() {
				infos = append(infos, genreInfo{Name: g.Name, Keywords: g.Keywords, Fallback: genre.IsFallback(g)})
			}
			if opts.JSON {
				return out.EmitJSON(infos)
			}
			for _, gi := range infos {
				kws := make([]string, len(gi.Keywords))
				for i, k := range gi.Keywords {
					kws[i] = strconv.Quote(k)
				}
				line := fmt.Sprintf("%-10s %s", out.Bold(gi.Name), strings.Join(kws, ", "))
				if gi.Fallback {
					line += out.Gray(" (fallback)")
				}
				out.Print(line)
			}
			return nil
		},
	}
}

func newVersionCmd(a *app, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := a.output(opts)
			if opts.JSON {
				return out.EmitJSON(map[string]string{"version": version})
			}
			out.Print(version)
			return nil
		},
	}
}
