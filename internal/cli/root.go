package cli

import (
	"errors"
	"io"

	"github.com/ghaniswara/algolove/internal/client"
	"github.com/ghaniswara/algolove/internal/entity"
	"github.com/spf13/cobra"
)

type options struct {
	env     string
	apiURL  string
	session string

	gender  string
	perPage int
	ageFrom int
	ageTo   int
}

// NewRootCommand builds the algolove command tree. Interactive commands read
// their input from in.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "algolove",
		Short:         "Match discovery API and terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)

	root.PersistentFlags().StringVar(&opts.env, "env", "dev", "config environment, used as the env var prefix")
	root.PersistentFlags().StringVar(&opts.apiURL, "api", "http://localhost:8080", "match API base URL")
	root.PersistentFlags().StringVar(&opts.session, "session", "", "dating session id sent as the session cookie")

	root.AddCommand(
		newServeCommand(opts),
		newBrowseCommand(opts),
		newRecommendCommand(opts),
		newMatchesCommand(opts),
	)

	return root
}

func addFilterFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.gender, "gender", "", "men, women or couple")
	cmd.Flags().IntVar(&opts.perPage, "per-page", 12, "candidates per page")
	cmd.Flags().IntVar(&opts.ageFrom, "age-from", 0, "minimum age, 0 for none")
	cmd.Flags().IntVar(&opts.ageTo, "age-to", 0, "maximum age, 0 for none")
}

func (o *options) query(page *int) entity.DiscoverQuery {
	query := entity.DiscoverQuery{Page: page, Gender: o.gender}
	if o.perPage > 0 {
		perPage := o.perPage
		query.PerPage = &perPage
	}
	if o.ageFrom > 0 {
		ageFrom := o.ageFrom
		query.AgeFrom = &ageFrom
	}
	if o.ageTo > 0 {
		ageTo := o.ageTo
		query.AgeTo = &ageTo
	}
	return query
}

func (o *options) api() (*client.API, error) {
	if o.session == "" {
		return nil, errors.New("--session is required")
	}
	return client.NewAPI(o.apiURL, o.session)
}
