package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProbeCommand(cmdCtx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <input>",
		Short: "Inspect a media file's streams and duration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := cmdCtx.ensurePipeline()
			if err != nil {
				return err
			}
			props, err := pipe.Probe(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, props)
			}

			rows := [][]string{
				{"Duration", formatSeconds(props.Duration)},
				{"Video", yesNo(props.HasVideo)},
				{"Audio", yesNo(props.HasAudio)},
			}
			if props.HasVideo {
				rows = append(rows,
					[]string{"Resolution", fmt.Sprintf("%dx%d", props.Width, props.Height)},
					[]string{"Frame rate", fmt.Sprintf("%.3f fps", props.FrameRate)},
				)
			}
			if props.HasAudio {
				rows = append(rows,
					[]string{"Sample rate", fmt.Sprintf("%d Hz", props.SampleRate)},
					[]string{"Channels", fmt.Sprintf("%d", props.Channels)},
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{
				{title: "Property"},
				{title: "Value", right: true},
			}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}
