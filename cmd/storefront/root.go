package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/spf13/cobra"

	"github.com/target/storefront/internal/bootstrap"
	apperrors "github.com/target/storefront/internal/errors"
	"github.com/target/storefront/internal/observability/notify"
	"github.com/target/storefront/internal/service"
)

// buildFunc wires the container for one invocation.
type buildFunc func(ctx context.Context, baseURL string) (*bootstrap.Container, error)

type app struct {
	out    io.Writer
	errOut io.Writer
	build  buildFunc

	query   string
	baseURL string

	container *bootstrap.Container
}

func newApp() *app {
	return &app{out: os.Stdout, errOut: os.Stderr, build: buildContainer}
}

func buildContainer(ctx context.Context, baseURL string) (*bootstrap.Container, error) {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
	logger := bootstrap.InitLogger(cfg.IsDev, nil)
	return bootstrap.Build(ctx, bootstrap.ContainerOptions{
		Config:   cfg,
		Logger:   logger,
		Notifier: notify.Multi{notify.NewWriter(os.Stderr), notify.NewLogger(logger)},
	})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront API client",
		Long: `storefront talks to the storefront backend on behalf of one signed-in user.

Credentials are persisted between invocations (see CREDENTIALS_STORE) and the
access token is refreshed transparently when the backend rejects it.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVarP(&a.query, "query", "q", "", "JMESPath expression applied to JSON output")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "backend base URL (overrides API_BASE_URL)")

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newRefreshCmd(a),
		newProfileCmd(a),
		newPasswordCmd(a),
		newUploadCmd(a),
		newCartCmd(a),
		newWishlistCmd(a),
		newOrdersCmd(a),
		newAddressesCmd(a),
		newCouponCmd(a),
		newPayCmd(a),
		newProductsCmd(a),
		newCategoriesCmd(a),
		newBrandsCmd(a),
		newTagsCmd(a),
		newReviewsCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup builds the container and restores the persisted session.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if skipsSession(cmd) {
		return nil
	}
	if a.container == nil {
		c, err := a.build(cmd.Context(), a.baseURL)
		if err != nil {
			return err
		}
		a.container = c
	}
	ctx := cmd.Context()
	if err := a.session().Initialize(ctx); err != nil && !service.IsReauthRequired(err) {
		slog.DebugContext(ctx, "session not restored", "error", err)
	}
	return nil
}

func (a *app) teardown() error {
	if a.container == nil {
		return nil
	}
	err := a.container.Close()
	a.container = nil
	return err
}

// report prints a failed command's error unless the API client already
// surfaced it through the notifier.
func (a *app) report(err error) {
	if err == nil || apperrors.IsNotified(err) {
		return
	}
	_, _ = fmt.Fprintf(a.errOut, "storefront: %v\n", err)
}

func skipsSession(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	if p := cmd.Parent(); p != nil && p.Name() == "completion" {
		return true
	}
	return cmd.Annotations["session"] == "none"
}

func (a *app) storefront() *service.Storefront {
	return a.container.Storefront
}

func (a *app) session() *service.SessionManager {
	return a.container.Storefront.Session
}

// requireSession fails fast when no session was restored.
func (a *app) requireSession() error {
	if !a.session().IsAuthenticated() {
		return errors.New("not signed in; run `storefront login` first")
	}
	return nil
}

// printJSON writes v as indented JSON, filtered through --query when set.
func (a *app) printJSON(v any) error {
	out, err := applyQuery(a.query, v)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

// applyQuery round-trips v through JSON so the expression sees the wire
// field names, then evaluates expr against it.
func applyQuery(expr string, v any) (any, error) {
	if strings.TrimSpace(expr) == "" {
		return v, nil
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	result, err := jmespath.Search(expr, data)
	if err != nil {
		return nil, fmt.Errorf("evaluate --query: %w", err)
	}
	return result, nil
}
