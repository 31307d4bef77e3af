package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/cachebridge/internal/core/domain"
	"gopkg.in/yaml.v3"
)

type labelResultView struct {
	Label          string              `yaml:"label"`
	Configurations []configurationView `yaml:"configurations"`
	Results        []resultView        `yaml:"results"`
	ConfigOwner    map[int]string      `yaml:"configOwner,omitempty"`
	OriginalIDs    map[int]int         `yaml:"originalIds,omitempty"`
}

type configurationView struct {
	ID               int               `yaml:"id"`
	Project          string            `yaml:"project"`
	GlobalProperties map[string]string `yaml:"globalProperties,omitempty"`
	ToolsVersion     string            `yaml:"toolsVersion,omitempty"`
	Targets          []string          `yaml:"targets,omitempty"`
}

type resultView struct {
	ConfigurationID int                   `yaml:"configurationId"`
	Error           string                `yaml:"error,omitempty"`
	Targets         map[string]targetView `yaml:"targets"`
}

type targetView struct {
	Code     string     `yaml:"code"`
	Items    []itemView `yaml:"items,omitempty"`
	Messages []string   `yaml:"messages,omitempty"`
}

type itemView struct {
	Spec     string            `yaml:"spec"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

func newLabelResultView(r *domain.LabelResult) labelResultView {
	v := labelResultView{
		Label:          r.Label.String(),
		Configurations: make([]configurationView, 0, len(r.Configurations)),
		Results:        make([]resultView, 0, len(r.Results)),
		ConfigOwner:    r.ConfigOwner,
		OriginalIDs:    r.OriginalIDs,
	}
	for _, cfg := range r.Configurations {
		v.Configurations = append(v.Configurations, configurationView{
			ID:               cfg.ID,
			Project:          cfg.ProjectPath,
			GlobalProperties: cfg.GlobalProperties,
			ToolsVersion:     cfg.ToolsVersion,
			Targets:          cfg.TargetNames,
		})
	}
	for _, res := range r.Results {
		rv := resultView{
			ConfigurationID: res.ConfigurationID,
			Error:           res.Error,
			Targets:         make(map[string]targetView, len(res.Targets)),
		}
		for name, tr := range res.Targets {
			tv := targetView{Code: tr.Code.String(), Messages: tr.Messages}
			for _, item := range tr.Items {
				tv.Items = append(tv.Items, itemView{Spec: item.Spec, Metadata: item.Metadata})
			}
			rv.Targets[name] = tv
		}
		v.Results = append(v.Results, rv)
	}
	return v
}

func (c *CLI) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ARTIFACT",
		Short: "Print a cache artifact as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := invocation(cmd)
			if err != nil {
				return err
			}

			result, err := c.app.Inspect(cmd.Context(), inv, args[0])
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(newLabelResultView(result)); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
