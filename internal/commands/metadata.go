package fraudcheck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/k0kubun/pp"
	"github.com/mwiater/fraudcheck/internal/form"
	"github.com/mwiater/fraudcheck/internal/session"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var metadataFormat string

// metadataCmd prints the field metadata in render order.
var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Print the form field metadata",
	Long:  `Fetch GET /metadata and print the fields in the order the form renders them, as a table, JSON or YAML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		format := metadataFormat
		if cfg.JSONMode && !cmd.Flags().Changed("format") {
			format = "json"
		}

		svc, agg := newService(cfg)
		defer flushMetrics(agg)

		state := session.New()
		if err := state.Load(commandContext(cmd), svc); err != nil {
			return fmt.Errorf("%s: %w", session.MetadataErrorMessage, err)
		}
		if cfg.Debug {
			pp.Fprintln(cmd.ErrOrStderr(), state.Metadata.Fields())
		}
		return writeMetadata(cmd.OutOrStdout(), state.Metadata, format)
	},
}

func init() {
	metadataCmd.Flags().StringVarP(&metadataFormat, "format", "f", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(metadataCmd)
}

func writeMetadata(out io.Writer, meta form.Metadata, format string) error {
	switch strings.ToLower(format) {
	case "table", "":
		_, err := fmt.Fprintln(out, metadataTable(meta))
		return err
	case "json":
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err = out.Write(buf.Bytes())
		return err
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(metadataNode(meta)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q: expected table, json or yaml", format)
	}
}

func metadataTable(meta form.Metadata) string {
	if meta.Len() == 0 {
		return "No fields."
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "FIELD", "CONTROL", "OPTIONS")
	for i, f := range meta.Fields() {
		options := "-"
		if f.Kind() == form.KindSelect {
			options = strings.Join(f.Options, ", ")
		}
		t.Row(fmt.Sprintf("%d", i+1), f.Name, f.Kind().String(), options)
	}
	return t.Render()
}

// metadataNode builds a YAML mapping so the field order survives encoding.
func metadataNode(meta form.Metadata) *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range meta.Fields() {
		options := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, opt := range f.Options {
			options.Content = append(options.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: opt})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name},
			options,
		)
	}
	return root
}
