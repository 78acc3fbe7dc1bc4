package cli

import (
	"fmt"

	"gift_catalog/internal/auth"
	"gift_catalog/internal/db"
	"gift_catalog/internal/model"
	"gift_catalog/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// UserAddOptions holds flags for the useradd command.
type UserAddOptions struct {
	*RootOptions
	Login    string
	Name     string
	Password string
	Role     string
}

// NewUserAddCommand creates the useradd command.
func NewUserAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "useradd",
		Short: "Create a user account",
		Long: `Create a user account that can log in and place orders.

Example:
  catalog useradd --login root --password 's3cret-pass' --role admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserAdd(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Login, "login", "", "login name (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name (defaults to login)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (required)")
	cmd.Flags().StringVar(&opts.Role, "role", model.RoleUser, "role (user|admin)")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runUserAdd(cmd *cobra.Command, opts *UserAddOptions) error {
	if opts.Role != model.RoleUser && opts.Role != model.RoleAdmin {
		return fmt.Errorf("invalid role %q: must be %s or %s", opts.Role, model.RoleUser, model.RoleAdmin)
	}

	hash, err := auth.HashPassword(opts.Password)
	if err != nil {
		return err
	}

	_, log, gdb, err := bootstrap(opts.RootOptions)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	name := opts.Name
	if name == "" {
		name = opts.Login
	}
	user := &model.User{Login: opts.Login, PasswordHash: hash, Name: name, Role: opts.Role}
	if err := store.New(gdb).CreateUser(cmd.Context(), user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User created")
	fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", user.Login, user.ID)
	return nil
}
