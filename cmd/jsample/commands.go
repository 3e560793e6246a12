package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnodel/jsonsample/extract"
	"github.com/arnodel/jsonsample/sample"
	"github.com/arnodel/jsonsample/verify"
)

func (a *app) extractCmd() *cobra.Command {
	var field string
	var count int
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Print the first objects of an array",
		Long: `Print the first N complete objects of the array held by a field, as a JSON
array.  Reading stops as soon as they are found.  The input is stdin when no
file (or "-") is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("field") {
				field = a.cfg.Sample.NodesField
			}
			src, name, err := a.openInput(args)
			if err != nil {
				return err
			}
			defer src.Close()

			e := &extract.Extractor{
				Field:      field,
				MaxObjects: count,
				Limits:     a.cfg.Limits(),
				Logger:     a.logger.With("input", name),
			}
			res, err := e.Extract(cmd.Context(), src)
			partial := errors.Is(err, extract.ErrBufferLimit)
			if err != nil && !partial {
				return err
			}
			if _, perr := extract.Parse(res); perr != nil {
				return perr
			}
			if !res.Complete {
				a.logger.Info("fewer objects than requested", "field", field, "found", res.ObjectsFound, "requested", count)
			}
			if werr := a.out.writeJSON(a.stdout, []byte(res.Array())); werr != nil {
				return werr
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&field, "field", "f", "", "name of the array field (sample.nodes_field from the config if unset)")
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of objects to extract")
	return cmd
}

func (a *app) sampleCmd() *cobra.Command {
	var maxNodes, maxLinks int
	cmd := &cobra.Command{
		Use:   "sample file",
		Short: "Print a small graph made of the first nodes and the links among them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := a.cfg.Layout()
			if cmd.Flags().Changed("max-nodes") {
				layout.MaxNodes = maxNodes
			}
			if cmd.Flags().Changed("max-links") {
				layout.MaxLinks = maxLinks
			}
			s := &sample.Sampler{
				Config: layout,
				Limits: a.cfg.Limits(),
				Logger: a.logger.With("input", args[0]),
			}
			g, err := s.Sample(cmd.Context(), sample.FileOpener(args[0]))
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if _, err := g.WriteTo(&buf); err != nil {
				return err
			}
			return a.out.writeJSON(a.stdout, buf.Bytes())
		},
	}
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "maximum number of nodes (sample.max_nodes from the config if unset)")
	cmd.Flags().IntVar(&maxLinks, "max-links", 0, "maximum number of links (sample.max_links from the config if unset)")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "verify file",
		Short: "Check the leading objects of a graph document",
		Long: `Check that the nodes and links arrays can be found, that their first objects
carry an id (nodes) or a source and a target (links), and that those links only
refer to those nodes.  The exit status is 1 if any check fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.Verify.Limit
			}
			layout := a.cfg.Layout()
			v := &verify.Verifier{
				Limit:  limit,
				Rules:  verify.DefaultRules(layout),
				Fields: layout,
				Limits: a.cfg.Limits(),
				Logger: a.logger.With("input", args[0]),
			}
			report, err := v.Verify(cmd.Context(), sample.FileOpener(args[0]))
			if err != nil {
				return err
			}
			if _, err := report.WriteTo(a.stdout); err != nil {
				return err
			}
			if !report.OK() {
				fmt.Fprintln(a.stderr, "verification failed")
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "objects to check in each array (verify.limit from the config if unset)")
	return cmd
}
