package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	apperrors "school-activities/internal/common/errors"
	"school-activities/internal/registry"
)

func newValidateSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-seed <path>",
		Short: "Check an activity seed file without starting the server",
		Long: `Parse a YAML activity catalog and check it against the seed schema and the
roster rules (unique names, positive capacity, rosters within capacity).

Examples:
  activities-api validate-seed configs/activities.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := registry.LoadSeed(args[0])
			if err != nil {
				return explainSeedError(args[0], err)
			}

			names := make([]string, 0, len(seed))
			for _, a := range seed {
				names = append(names, fmt.Sprintf("%s (%d/%d)", a.Name, len(a.Participants), a.MaxParticipants))
			}
			sort.Strings(names)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d activities OK\n", args[0], len(seed))
			for _, n := range names {
				fmt.Fprintf(out, "  %s\n", n)
			}
			return nil
		},
	}
}

// explainSeedError surfaces the validation details that StandardError.Error
// leaves out.
func explainSeedError(path string, err error) error {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) && stdErr.Details != "" {
		return fmt.Errorf("%s: %s: %s", path, stdErr.Message, stdErr.Details)
	}
	return err
}
