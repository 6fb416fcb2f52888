package app

import (
	"fmt"
	"io"
	"math/rand/v2"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gokatarajesh/slicetomeetyou/internal/heatmap"
	"github.com/gokatarajesh/slicetomeetyou/internal/pizza"
	"github.com/gokatarajesh/slicetomeetyou/internal/quiz"
)

const releaseVersion = "0.4.0"

// NewRootCmd builds the command tree bound to a.
func NewRootCmd(a *Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "slices",
		Short:         "Times tables practice and pizza party planning.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
	}
	cmd.SetIn(a.streams.In)
	cmd.SetOut(a.streams.Out)
	cmd.SetErr(a.streams.Err)

	cmd.AddCommand(newTablesCmd(a), newPizzaCmd(a), newWhoamiCmd(a))
	return cmd
}

func normalizeFlags(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}

func newWhoamiCmd(a *Application) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the persisted user id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.UserID(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

type playFlags struct {
	questions int
	rows      int
	cols      int
	noColor   bool
	png       string
	share     bool
}

func newTablesCmd(a *Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Times tables game",
	}

	var f playFlags
	play := &cobra.Command{
		Use:   "play",
		Short: "Play one session and show the heatmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, a, f)
		},
	}
	fs := play.Flags()
	normalizeFlags(fs)
	fs.IntVarP(&f.questions, "questions", "n", 0, "questions per session (env: QUIZ_QUESTION_COUNT)")
	fs.IntVar(&f.rows, "rows", 0, "largest first operand (env: QUIZ_GRID_ROWS)")
	fs.IntVar(&f.cols, "cols", 0, "largest second operand (env: QUIZ_GRID_COLS)")
	fs.BoolVar(&f.noColor, "no-color", false, "print the heatmap without colors")
	fs.StringVar(&f.png, "png", "", "also write the heatmap to this PNG file")
	fs.BoolVar(&f.share, "share", false, "print the compact share grid")

	cmd.AddCommand(play)
	return cmd
}

func runPlay(cmd *cobra.Command, a *Application, f playFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg := a.QuizConfig()
	if f.questions > 0 {
		cfg.QuestionCount = f.questions
	}
	if f.rows > 0 {
		cfg.Rows = f.rows
	}
	if f.cols > 0 {
		cfg.Cols = f.cols
	}

	userID, err := a.UserID(ctx)
	if err != nil {
		return err
	}
	game, err := quiz.NewGame(cfg, a.backend, quiz.GameOptions{Recorder: a.metrics}, a.logger)
	if err != nil {
		return err
	}

	outcome, err := game.Play(ctx, userID, newTerminalUI(cmd.InOrStdin(), out))
	if outcome != nil {
		writeResults(out, outcome)
	}
	if err != nil {
		return err
	}

	h := outcome.Result.Heatmap
	fmt.Fprintln(out)
	grid := heatmap.Render(h, cfg.Rows, cfg.Cols)
	if err := heatmap.WriteANSI(out, grid, !f.noColor); err != nil {
		return err
	}

	if f.png != "" {
		if err := writePNGFile(f.png, grid); err != nil {
			return err
		}
		fmt.Fprintf(out, "Heatmap written to %s\n", f.png)
	}

	if f.share {
		text, err := heatmap.ShareText(h, heatmap.ShareOptions{
			Rows:       cfg.Rows,
			Cols:       cfg.Cols,
			SampleRows: min(a.cfg.Share.SampleRows, cfg.Rows),
			SampleCols: min(a.cfg.Share.SampleCols, cfg.Cols),
			UserAvg:    outcome.Result.UserAvg,
			UserCount:  outcome.Result.UserCount,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s\n", text)
	}
	return nil
}

func writePNGFile(path string, grid heatmap.Grid) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := heatmap.WritePNG(file, grid, 0); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func newPizzaCmd(a *Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pizza",
		Short: "Pizza party planner",
	}
	cmd.AddCommand(
		newJoinCmd(a),
		newSummaryCmd(a),
		newAvailableCmd(a),
		newCreateCmd(a),
		newIngredientsCmd(a),
		newShareCmd(a),
	)
	return cmd
}

type joinFlags struct {
	party    string
	name     string
	slices   int
	prefs    []string
	take     map[string]int
	roulette bool
	dryRun   bool
}

func newJoinCmd(a *Application) *cobra.Command {
	var f joinFlags
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join a party with your slice count and ingredient preferences",
		Example: `  slices pizza join --party AB12 --name alice --slices 3 --pref bacon=2 --pref olives=0
  slices pizza join --party AB12 --name bob --roulette --take 1=2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJoin(cmd, a, f)
		},
	}
	fs := cmd.Flags()
	normalizeFlags(fs)
	fs.StringVarP(&f.party, "party", "p", "", "4 character party ID")
	fs.StringVar(&f.name, "name", "", "your name")
	fs.IntVarP(&f.slices, "slices", "s", 0, "slices of your custom pizza")
	fs.StringArrayVar(&f.prefs, "pref", nil, "ingredient=tier where tier is 0/avoid, 1/indifferent or 2/must-have (repeatable)")
	fs.StringToIntVar(&f.take, "take", nil, "slices of an existing pizza, as id=count")
	fs.BoolVar(&f.roulette, "roulette", false, "pick random preferences (at most 3 must-haves)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the form without joining")
	return cmd
}

func runJoin(cmd *cobra.Command, a *Application, f joinFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	prefs := pizza.NewPreferences()
	if f.roulette {
		prefs.Randomize(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	}
	for _, raw := range f.prefs {
		key, tier, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("--pref %q: want ingredient=tier", raw)
		}
		p, err := pizza.ParsePreference(strings.TrimSpace(tier))
		if err != nil {
			return err
		}
		if err := prefs.Set(strings.ToLower(strings.TrimSpace(key)), p); err != nil {
			return err
		}
	}

	writePreferenceForm(out, prefs)

	req, err := pizza.NewJoinRequest(pizza.JoinInput{
		PartyID:        f.party,
		Name:           f.name,
		SliceCount:     f.slices,
		Preferences:    prefs,
		ExistingSlices: f.take,
	})
	if err != nil {
		return err
	}

	if len(req.ExistingSlices) > 0 {
		available, err := a.backend.AvailablePizzas(ctx)
		if err != nil {
			return err
		}
		for id, n := range req.ExistingSlices {
			p, ok := available.Find(id)
			if !ok {
				return fmt.Errorf("no pizza with id %s, see 'slices pizza available'", id)
			}
			fmt.Fprintf(out, "Taking %d from %s\n", n, p.Label())
		}
	}

	if f.dryRun {
		return nil
	}

	res, err := a.backend.JoinParty(ctx, req)
	if err != nil {
		return err
	}
	if res.Override != nil {
		fmt.Fprintf(out, "\n%s\n%s\n", res.Override.Message, res.Override.Image)
		return nil
	}
	fmt.Fprintln(out, "\nSuccessfully joined the pizza party! 🍕")
	return nil
}

func writePreferenceForm(w io.Writer, prefs *pizza.Preferences) {
	fmt.Fprintf(w, "Must-haves: %d/%d\n", prefs.MustHaveCount(), pizza.MaxMustHave)
	for _, section := range prefs.Rows() {
		fmt.Fprintf(w, "\n%s\n", section.Category)
		for _, row := range section.Rows {
			lock := ""
			if row.MustHaveDisabled {
				lock = "  (must-have locked)"
			}
			fmt.Fprintf(w, "  %-20s %s%s\n", row.Ingredient.Label(), row.Preference.Symbol(), lock)
		}
	}
	fmt.Fprintln(w)
}

func newSummaryCmd(a *Application) *cobra.Command {
	return &cobra.Command{
		Use:   "summary PARTY_ID|LINK",
		Short: "Show who is coming and what to order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.backend.PartySummary(cmd.Context(), partyArg(args[0]))
			if err != nil {
				return err
			}
			return pizza.WriteSummary(cmd.OutOrStdout(), pizza.BuildSummaryView(*s))
		},
	}
}

// partyArg accepts a bare ID or a share link such as https://host/AB12.
func partyArg(arg string) string {
	u, err := url.Parse(arg)
	if err != nil || u.Host == "" {
		return arg
	}
	if id, ok := pizza.PartyIDFromPath(u.Path); ok {
		return id
	}
	return arg
}

func newAvailableCmd(a *Application) *cobra.Command {
	return &cobra.Command{
		Use:   "available",
		Short: "List pizzas you can claim slices of",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			available, err := a.backend.AvailablePizzas(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			writePizzaList(out, "Classic pizzas", available.Hardcoded)
			writePizzaList(out, "Custom pizzas", available.Custom)
			return nil
		},
	}
}

func writePizzaList(w io.Writer, title string, pizzas []pizza.AvailablePizza) {
	fmt.Fprintln(w, title)
	if len(pizzas) == 0 {
		fmt.Fprintln(w, "  (none yet)")
		return
	}
	for _, p := range pizzas {
		fmt.Fprintf(w, "  [%s] %s\n", p.ID, p.Label())
	}
}

func newCreateCmd(a *Application) *cobra.Command {
	var (
		name        string
		ingredients []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a custom pizza with up to 3 ingredients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := pizza.NewCreatePizzaRequest(name, ingredients)
			if err != nil {
				return err
			}
			if _, err := a.backend.CreatePizza(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", pizza.AvailablePizza{Name: req.PizzaName, Ingredients: req.Ingredients}.Label())
			return nil
		},
	}
	fs := cmd.Flags()
	normalizeFlags(fs)
	fs.StringVar(&name, "name", "", "pizza name")
	fs.StringSliceVarP(&ingredients, "ingredient", "i", nil, "ingredient key (repeatable, 1 to 3)")
	return cmd
}

func newIngredientsCmd(a *Application) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "List the ingredient catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, c := range pizza.Categories {
				fmt.Fprintln(out, c)
				for _, ing := range pizza.ByCategory(c) {
					fmt.Fprintf(out, "  %-20s %s\n", ing.Label(), ing.Key)
				}
			}
			if offline {
				return nil
			}

			remote, err := a.backend.Ingredients(cmd.Context())
			if err != nil {
				return err
			}
			diff := pizza.DiffCatalog(remote)
			if diff.Empty() {
				fmt.Fprintln(out, "\nBackend catalog matches.")
				return nil
			}
			sort.Strings(diff.Unknown)
			if len(diff.Unknown) > 0 {
				fmt.Fprintf(out, "\nOnly on the backend: %s\n", strings.Join(diff.Unknown, ", "))
			}
			if len(diff.Missing) > 0 {
				fmt.Fprintf(out, "\nNot offered by the backend: %s\n", strings.Join(diff.Missing, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "skip comparing with the backend listing")
	return cmd
}

func newShareCmd(a *Application) *cobra.Command {
	var pngPath string
	cmd := &cobra.Command{
		Use:   "share PARTY_ID",
		Short: "Print the party link and its QR code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qr, err := pizza.NewShareQR(a.cfg.Share.BaseURL, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, qr.URL)
			fmt.Fprint(out, qr.Terminal())

			if pngPath == "" {
				return nil
			}
			file, err := os.Create(pngPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", pngPath, err)
			}
			if err := qr.WritePNG(file, 0); err != nil {
				file.Close()
				return err
			}
			return file.Close()
		},
	}
	cmd.Flags().StringVar(&pngPath, "png", "", "also write the QR code to this PNG file")
	return cmd
}
