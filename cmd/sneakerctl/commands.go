package main

import (
	"bufio"          // Line input
	"context"        // Request scoping
	"fmt"            // Output
	"io"             // Writers
	"strconv"        // Argument parsing
	"strings"        // Argument trimming
	"text/tabwriter" // Table output
	"time"           // Release dates

	"github.com/SofiaUmrish/sneaker-drop/internal/apiclient"  // API client
	"github.com/SofiaUmrish/sneaker-drop/internal/config"     // Environment configuration
	"github.com/SofiaUmrish/sneaker-drop/internal/domain"     // Shared models
	"github.com/SofiaUmrish/sneaker-drop/internal/localstore" // Durable local state
	"github.com/SofiaUmrish/sneaker-drop/internal/option"     // Catalog filters
	"github.com/SofiaUmrish/sneaker-drop/internal/session"    // Client session
	"github.com/SofiaUmrish/sneaker-drop/internal/wishlist"   // Reconciler options

	"github.com/sirupsen/logrus" // Logging library
	"github.com/spf13/cobra"     // CLI framework
)

// withSession opens the local store, resumes the saved identity and runs fn
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session.Session) error) error {
	cfg := config.LoadClientConfig()
	local, err := localstore.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	s := session.New(apiclient.New(cfg.APIURL, cfg.HTTPTimeout), local, wishlist.Options{ClearOnLoadFailure: cfg.ClearOnFail})
	defer func() {
		if err := s.Close(); err != nil {
			logrus.WithField("error", err.Error()).Warn("Close local store failed")
		}
	}()
	s.Resume()
	return fn(cmd.Context(), s)
}

func requireUser(s *session.Session) (*apiclient.Identity, error) {
	user := s.CurrentUser()
	if user == nil {
		return nil, apiclient.ErrNotAuthenticated
	}
	return user, nil
}

func requireAdmin(s *session.Session) (*apiclient.Identity, error) {
	user, err := requireUser(s)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, fmt.Errorf("%s is not an admin", user.Email)
	}
	return user, nil
}

// readPassword takes the flag value or a line from stdin
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func parseID(raw string) (uint, error) {
	id, err := wishlist.ParseShoeID(raw)
	return uint(id), err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printShoes(w io.Writer, shoes []domain.ShoeView, liked func(uint) bool) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tMODEL\tBRAND\tPRICE\tRELEASE\tSTATUS\t")
	for _, s := range shoes {
		mark := ""
		if liked != nil && liked(s.ID) {
			mark = "♥"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%s\t%s\t%s\n",
			s.ID, s.ModelName, s.BrandName, s.Price, s.ReleaseDate.Format("2006-01-02"), s.Status, mark)
	}
	return tw.Flush()
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "sneakerctl",
		Short:         "Track sneaker drops, your wishlist and your budget",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logrus.SetLevel(logrus.WarnLevel)
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(
		newRegisterCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newProfileCmd(),
		newShoesCmd(),
		newSoonestCmd(),
		newWishlistCmd(),
		newBudgetCmd(),
		newRemindersCmd(),
		newDropsCmd(),
		newHypeCmd(),
	)
	return root
}

// =============================================================================
// Account
// =============================================================================

func newRegisterCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				if err := s.Register(ctx, name, email, pw); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s. Sign in with: sneakerctl login --email %s\n", email, email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				user, err := s.SignIn(ctx, email, pw)
				if user == nil {
					return err
				}
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s), %d liked\n", user.Name, user.Role, s.Wishlist().Len())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(_ context.Context, s *session.Session) error {
				if err := s.SignOut(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(_ context.Context, s *session.Session) error {
				user := s.CurrentUser()
				if user == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "guest")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s budget=%.2f\n", user.Name, user.Email, user.Role, user.MonthlyBudget)
				return nil
			})
		},
	}
}

func newProfileCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Change name and email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				user, err := s.UpdateProfile(ctx, name, email)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Profile updated: %s <%s>\n", user.Name, user.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// =============================================================================
// Catalog
// =============================================================================

func newShoesCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "shoes",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				shoes, err := s.Catalog(ctx, status)
				if err != nil {
					return err
				}
				var liked func(uint) bool
				if s.CurrentUser() != nil {
					if _, err := s.Wishlist().Load(ctx, s.CurrentUser()); err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), "Warning: wishlist not refreshed:", err)
					}
					liked = func(id uint) bool { return s.Wishlist().IsLiked(id) }
				}
				return printShoes(cmd.OutOrStdout(), shoes, liked)
			})
		},
	}
	var statuses []string
	for _, o := range option.StatusFilter() {
		statuses = append(statuses, option.Display(o))
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status: "+strings.Join(statuses, ", "))
	return cmd
}

func newSoonestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "soonest",
		Short: "Show the next drop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				shoe, err := s.API().Soonest(ctx)
				if err != nil {
					return err
				}
				if shoe == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "No upcoming drops")
					return nil
				}
				return printShoes(cmd.OutOrStdout(), []domain.ShoeView{*shoe}, nil)
			})
		},
	}
}

// =============================================================================
// Wishlist and budget
// =============================================================================

func newWishlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show liked shoes and the monthly budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				if _, err := requireUser(s); err != nil {
					return err
				}
				view, err := s.LoadWishlistView(ctx)
				if err != nil {
					return err
				}
				if view.Stale != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "Warning: showing cached wishlist:", view.Stale)
				}
				if err := printShoes(cmd.OutOrStdout(), view.Items, nil); err != nil {
					return err
				}
				m := view.Metrics
				fmt.Fprintf(cmd.OutOrStdout(), "\nTotal %.2f of %.2f (%.1f%%), remaining %.2f\n", m.TotalCost, m.Limit, m.PercentUsed, m.Remaining)
				if m.OverBudget {
					fmt.Fprintln(cmd.OutOrStdout(), "Over budget!")
				}
				return nil
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <shoe-id>",
		Short: "Like or unlike a shoe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				if _, err := s.Restore(ctx); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "Warning: wishlist not refreshed:", err)
				}
				m, err := s.Toggle(ctx, args[0])
				if err != nil {
					return err
				}
				verb := "Liked"
				if m.WasLiked {
					verb = "Unliked"
				}
				if err := m.Wait(ctx); err != nil {
					return fmt.Errorf("%s shoe %s was %s: %w", strings.ToLower(verb), m.ShoeID, m.State(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s shoe %s\n", verb, m.ShoeID)
				return nil
			})
		},
	})
	return cmd
}

func newBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage the monthly budget",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <amount>",
		Short: "Set the monthly budget; invalid amounts become 0",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				m := s.SetBudget(ctx, args[0])
				if err := m.Wait(ctx); err != nil {
					return fmt.Errorf("budget %.2f kept locally, server update failed: %w", m.Limit, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Monthly budget set to %.2f\n", m.Limit)
				return nil
			})
		},
	})
	return cmd
}

// =============================================================================
// Reminders
// =============================================================================

func newRemindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List drop reminders, soonest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				reminders, err := s.Reminders().List(ctx, s.CurrentUser())
				if err != nil {
					return err
				}
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "REMINDER\tSHOE\tMODEL\tRELEASE\tSTATUS")
				for _, r := range reminders {
					fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", r.ReminderID, r.ID, r.ModelName, r.ReleaseDate.Format("2006-01-02"), r.Status)
				}
				return tw.Flush()
			})
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <shoe-id>",
			Short: "Remind me about a drop",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				shoeID, err := parseID(args[0])
				if err != nil {
					return err
				}
				return withSession(cmd, func(ctx context.Context, s *session.Session) error {
					if err := s.Reminders().Set(ctx, s.CurrentUser(), shoeID); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Reminder set for shoe %d\n", shoeID)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "rm <reminder-id>",
			Short: "Remove a reminder",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				reminderID, err := parseID(args[0])
				if err != nil {
					return err
				}
				return withSession(cmd, func(ctx context.Context, s *session.Session) error {
					if err := s.Reminders().Remove(ctx, s.CurrentUser(), reminderID); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Reminder %d removed\n", reminderID)
					return nil
				})
			},
		},
	)
	return cmd
}

// =============================================================================
// Admin
// =============================================================================

// parseRelease accepts a date or an RFC 3339 timestamp
func parseRelease(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func newDropsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drops",
		Short: "Manage the catalog (admin)",
	}

	var (
		shoe            apiclient.NewShoe
		price, release  string
		brand, category string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a drop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			releaseDate, err := parseRelease(release)
			if err != nil {
				return fmt.Errorf("release %q: %w", release, apiclient.ErrInvalidInput)
			}
			p, err := strconv.ParseFloat(price, 64)
			if err != nil || p < 0 {
				return fmt.Errorf("price %q: %w", price, apiclient.ErrInvalidInput)
			}
			shoe.ReleaseDate, shoe.Price = releaseDate, p
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				admin, err := requireAdmin(s)
				if err != nil {
					return err
				}
				brands, err := s.API().Brands(ctx)
				if err != nil {
					return err
				}
				categories, err := s.API().Categories(ctx)
				if err != nil {
					return err
				}
				b, ok := option.Find(option.Brands(brands), brand)
				if !ok {
					return fmt.Errorf("unknown brand %q: %w", brand, apiclient.ErrInvalidInput)
				}
				c, ok := option.Find(option.Categories(categories), category)
				if !ok {
					return fmt.Errorf("unknown category %q: %w", category, apiclient.ErrInvalidInput)
				}
				shoe.BrandID, _ = parseID(option.Value(b))
				shoe.CategoryID, _ = parseID(option.Value(c))
				created, err := s.API().CreateShoe(ctx, admin.Token, shoe)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s as #%d (%s, %s)\n", created.ModelName, created.ID, option.Display(b), option.Display(c))
				return nil
			})
		},
	}
	add.Flags().StringVar(&shoe.ModelName, "model", "", "model name")
	add.Flags().StringVar(&price, "price", "", "retail price")
	add.Flags().StringVar(&release, "release", "", "release date, YYYY-MM-DD or RFC 3339")
	add.Flags().StringVar(&brand, "brand", "", "brand name or id")
	add.Flags().StringVar(&category, "category", "", "category name or id")
	add.Flags().StringVar(&shoe.SKU, "sku", "", "stock keeping unit")
	add.Flags().StringVar(&shoe.ImageURL, "image", "", "image URL")
	add.Flags().StringVar(&shoe.ShopLink, "shop", "", "shop link")
	add.Flags().StringVar(&shoe.Description, "description", "", "description")
	for _, f := range []string{"model", "price", "release", "brand", "category"} {
		_ = add.MarkFlagRequired(f)
	}

	rm := &cobra.Command{
		Use:   "rm <shoe-id>",
		Short: "Remove a drop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shoeID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				admin, err := requireAdmin(s)
				if err != nil {
					return err
				}
				if err := s.API().DeleteShoe(ctx, admin.Token, shoeID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed drop %d\n", shoeID)
				return nil
			})
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

func newHypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hype",
		Short: "Most wishlisted shoes (admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session.Session) error {
				admin, err := requireAdmin(s)
				if err != nil {
					return err
				}
				entries, err := s.API().Hype(ctx, admin.Token)
				if err != nil {
					return err
				}
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "RANK\tID\tMODEL\tLIKES")
				for i, e := range entries {
					fmt.Fprintf(tw, "%d\t%d\t%s\t%d\n", i+1, e.ID, e.ModelName, e.LikesCount)
				}
				return tw.Flush()
			})
		},
	}
}
