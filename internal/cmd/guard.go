package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trackshift/arena-web/internal/core/domain"
)

var guardOpts struct {
	signedOut bool
	checking  bool
	role      string
	team      string
	agents    int
}

var guardCmd = &cobra.Command{
	Use:   "guard [path...]",
	Short: "Show what the route guard does for a profile",
	Long: `Evaluate the route guard for a hypothetical session and print the
decision for each path.

Examples:
  # A participant who has a team but no agents yet
  arena-web guard --team t1 /app/team /app/create-agents

  # A spectator
  arena-web guard --role spectator /app /app/rooms`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGuard,
}

func init() {
	f := guardCmd.Flags()
	f.BoolVar(&guardOpts.signedOut, "signed-out", false, "evaluate without a session")
	f.BoolVar(&guardOpts.checking, "checking", false, "evaluate while the profile is still loading")
	f.StringVar(&guardOpts.role, "role", string(domain.RoleParticipant), "profile role (participant or spectator)")
	f.StringVar(&guardOpts.team, "team", "", "team ID, empty for none")
	f.IntVar(&guardOpts.agents, "agents", 0, "number of agents on the team")
}

func runGuard(cmd *cobra.Command, paths []string) error {
	st := domain.AuthState{
		HasLoaded: !guardOpts.checking,
		Loading:   guardOpts.checking,
		Profile: domain.Profile{
			Role:       domain.ParseRole(guardOpts.role),
			TeamID:     guardOpts.team,
			AgentCount: guardOpts.agents,
		},
	}
	if !guardOpts.signedOut {
		st.Session = &domain.Session{UserID: "cli", Email: "cli@localhost"}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tSTATE\tACTION\tTARGET")
	for _, p := range paths {
		d := domain.Decide(st, p)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p, d.State, d.Action, d.Target)
	}
	return w.Flush()
}
