package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ghaniswara/algolove/internal/client"
	"github.com/ghaniswara/algolove/internal/entity"
	"github.com/spf13/cobra"
)

func newBrowseCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Swipe through discover candidates one card at a time",
		Long: `Swipe through discover candidates. Commands:
  l  like the current card
  d  dislike the current card
  q  quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api()
			if err != nil {
				return err
			}

			deck := client.NewDeck(api, opts.query(nil))
			return runDeck(cmd, deck)
		},
	}
	addFilterFlags(cmd, opts)
	return cmd
}

func runDeck(cmd *cobra.Command, deck *client.Deck) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	_ = deck.Load(cmd.Context())

	for {
		switch deck.State() {
		case client.StateError:
			fmt.Fprintf(out, "Failed to load discover cards: %s\n", client.ErrorMessage(deck.Err(), "Unable to process request right now"))
			return nil
		case client.StateEmpty:
			fmt.Fprintln(out, "No discover profiles available right now.")
			return nil
		}

		current := deck.Current()
		fmt.Fprintf(out, "[page %d] %s\n", deck.Page()+1, describe(*current))
		fmt.Fprint(out, "(l)ike (d)islike (q)uit > ")

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		action, quit := parseAction(scanner.Text())
		if quit {
			return nil
		}
		if action == "" {
			fmt.Fprintln(out, "Unknown command.")
			continue
		}

		result, err := deck.Act(cmd.Context(), action)
		if err != nil {
			fmt.Fprintln(out, client.ErrorMessage(err, "Unable to process request right now"))
			continue
		}
		if result.IsMatch {
			fmt.Fprintln(out, "It's a match!")
		}
	}
}

func newRecommendCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Review recommendations as a list and act on the selected one",
		Long: `Review recommendations. Commands:
  s <id>  select a candidate
  l       like the selected candidate
  d       dislike the selected candidate
  n, p    next or previous page
  q       quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api()
			if err != nil {
				return err
			}

			page := 1
			recs := client.NewRecommendations(api, opts.query(&page))
			return runRecommendations(cmd, recs)
		},
	}
	addFilterFlags(cmd, opts)
	return cmd
}

func runRecommendations(cmd *cobra.Command, recs *client.Recommendations) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	_ = recs.Load(cmd.Context())

	for {
		printRecommendations(out, recs)
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "q":
			return nil
		case "s":
			if len(fields) < 2 {
				fmt.Fprintln(out, "Usage: s <id>")
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				fmt.Fprintln(out, "Usage: s <id>")
				continue
			}
			recs.Select(id)
		case "n", "p":
			query := recs.Query()
			page := 1
			if query.Page != nil {
				page = *query.Page
			}
			if fields[0] == "n" {
				page = min(max(recs.TotalPages(), 1), page+1)
			} else {
				page = max(1, page-1)
			}
			query.Page = &page
			recs.SetQuery(query)
			_ = recs.Load(cmd.Context())
		default:
			action, _ := parseAction(fields[0])
			if action == "" {
				fmt.Fprintln(out, "Unknown command.")
				continue
			}
			status, _ := recs.Act(cmd.Context(), action)
			if status != "" {
				fmt.Fprintln(out, status)
			}
		}
	}
}

func printRecommendations(out io.Writer, recs *client.Recommendations) {
	switch recs.State() {
	case client.StateError:
		fmt.Fprintf(out, "Error: %s\n", client.ErrorMessage(recs.Err(), "Failed to load data."))
		return
	case client.StateEmpty:
		fmt.Fprintln(out, "No recommendations found.")
		return
	}

	selected := recs.Current()
	for _, candidate := range recs.Items() {
		marker := " "
		if selected != nil && candidate.ID == selected.ID {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, describe(candidate))
	}
}

func newMatchesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "matches",
		Short: "List existing matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			response, err := api.List(cmd.Context())

			switch client.StateOf(false, err, len(response.Items)) {
			case client.StateError:
				return fmt.Errorf("%s", client.ErrorMessage(err, "Failed to load data."))
			case client.StateEmpty:
				fmt.Fprintln(out, "No matches yet.")
				return nil
			}

			for _, candidate := range response.Items {
				fmt.Fprintln(out, describe(candidate))
			}
			fmt.Fprintf(out, "%d match(es)\n", response.Total)
			return nil
		},
	}
}

func parseAction(input string) (entity.MatchAction, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "l", "like":
		return entity.MatchActionLike, false
	case "d", "dislike":
		return entity.MatchActionDislike, false
	case "q", "quit":
		return "", true
	}
	return "", false
}

func describe(c entity.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s", c.ID, c.Username)
	if c.Age != nil {
		fmt.Fprintf(&b, ", %d", *c.Age)
	}
	if c.Gender != "" {
		fmt.Fprintf(&b, " (%s)", c.Gender)
	}
	if c.Location != "" {
		fmt.Fprintf(&b, " - %s", c.Location)
	}
	return b.String()
}
