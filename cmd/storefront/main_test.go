package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/storefront/internal/apiclient"
	"github.com/target/storefront/internal/bootstrap"
	domainauth "github.com/target/storefront/internal/domain/auth"
	mocksauth "github.com/target/storefront/internal/mocks/auth"
	"github.com/target/storefront/internal/observability/notify"
	"github.com/target/storefront/internal/service"
	"github.com/target/storefront/internal/testutil"
)

type cliFixture struct {
	app     *app
	backend *testutil.Backend
	store   *mocksauth.CredentialStore
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	builds  int
}

func newCLIFixture(t *testing.T, persisted domainauth.Credentials) *cliFixture {
	t.Helper()
	f := &cliFixture{
		backend: testutil.NewBackend(),
		store:   mocksauth.NewCredentialStore(persisted),
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
	}
	f.app = &app{
		out:    f.out,
		errOut: f.errOut,
		build: func(_ context.Context, _ string) (*bootstrap.Container, error) {
			f.builds++
			client, err := apiclient.New(apiclient.Options{
				BaseURL:    testutil.BackendURL,
				HTTPClient: f.backend.HTTPClient(),
				Notifier:   notify.NewWriter(f.errOut),
			})
			if err != nil {
				return nil, err
			}
			return &bootstrap.Container{
				Storefront: service.NewStorefront(service.StorefrontOptions{Client: client, Store: f.store}),
				Client:     client,
				Store:      f.store,
			}, nil
		},
	}
	return f
}

func (f *cliFixture) run(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd(f.app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	require.NoError(t, f.app.teardown())
	return err
}

func (f *cliFixture) signedIn() {
	f.store = mocksauth.NewCredentialStore(domainauth.Credentials{AccessToken: "A1", RefreshToken: "R1"})
	f.backend.JSON(http.MethodGet, apiclient.ProfilePath, http.StatusOK, map[string]any{"id": 1, "username": "alice", "email": "alice@example.com"})
}

func cartPayload(items ...map[string]any) map[string]any {
	if items == nil {
		items = []map[string]any{}
	}
	return map[string]any{"id": 1, "items": items, "total_items": len(items), "subtotal": "0.00", "total_discount": "0.00", "total": "0.00"}
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	root := newRootCmd(newApp())

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"login", "register", "logout", "whoami", "refresh", "profile", "password", "upload", "cart", "wishlist", "orders", "addresses", "coupon", "pay", "products", "categories", "brands", "tags", "reviews", "version"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("query"))
	assert.NotNil(t, root.PersistentFlags().Lookup("base-url"))
}

func TestVersion_SkipsSession(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})

	require.NoError(t, f.run(t, "version"))

	assert.Contains(t, f.out.String(), "storefront "+Version)
	assert.Zero(t, f.builds)
	assert.Zero(t, f.backend.Total())
}

func TestLogin_PersistsSessionAndFiltersOutput(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})
	f.backend.JSON(http.MethodPost, apiclient.LoginPath, http.StatusOK, map[string]any{
		"user":    map[string]any{"id": 7, "username": "alice"},
		"access":  "A1",
		"refresh": "R1",
	})

	require.NoError(t, f.run(t, "login", "-u", "alice", "-p", "s3cret", "--query", "username"))

	assert.Equal(t, "\"alice\"\n", f.out.String())
	assert.Equal(t, domainauth.Credentials{AccessToken: "A1", RefreshToken: "R1"}, f.store.Stored())

	var body map[string]string
	require.NoError(t, json.Unmarshal(f.backend.Calls(http.MethodPost, apiclient.LoginPath)[0].Body, &body))
	assert.Equal(t, "s3cret", body["password"])
}

func TestLogin_PasswordFromEnvironment(t *testing.T) {
	t.Setenv(passwordEnv, "from-env")
	f := newCLIFixture(t, domainauth.Credentials{})
	f.backend.JSON(http.MethodPost, apiclient.LoginPath, http.StatusOK, map[string]any{
		"user": map[string]any{"id": 7, "username": "alice"}, "access": "A1", "refresh": "R1",
	})

	require.NoError(t, f.run(t, "login", "-u", "alice"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(f.backend.Calls(http.MethodPost, apiclient.LoginPath)[0].Body, &body))
	assert.Equal(t, "from-env", body["password"])
}

func TestWhoami_SignedOut(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})

	err := f.run(t, "whoami")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")
	assert.Zero(t, f.backend.Total())
}

func TestWhoami_RestoresPersistedSession(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})
	f.signedIn()

	require.NoError(t, f.run(t, "whoami", "-q", "email"))

	assert.Equal(t, "\"alice@example.com\"\n", f.out.String())
	assert.Equal(t, "A1", f.backend.Calls(http.MethodGet, apiclient.ProfilePath)[0].Bearer())
}

func TestCartAdd_RefetchesCart(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})
	f.signedIn()
	f.backend.JSON(http.MethodPost, apiclient.CartAddPath, http.StatusCreated, map[string]any{"message": "Added"})
	f.backend.JSON(http.MethodGet, apiclient.CartPath, http.StatusOK, cartPayload(map[string]any{
		"id": 10, "product": map[string]any{"id": 3, "name": "Mug"}, "quantity": 2,
	}))

	require.NoError(t, f.run(t, "cart", "add", "3", "--qty", "2", "--query", "total_items"))

	assert.Equal(t, "1\n", f.out.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(f.backend.Calls(http.MethodPost, apiclient.CartAddPath)[0].Body, &body))
	assert.InDelta(t, 3, body["product_id"], 0)
	assert.InDelta(t, 2, body["quantity"], 0)
}

func TestCartRemove_RejectsBadID(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})
	f.signedIn()

	err := f.run(t, "cart", "remove", "abc")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid item id")
	assert.Equal(t, 1, f.backend.Total(), "only the profile restore should be sent")
}

func TestOrders_ListPassesFilters(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})
	f.signedIn()
	f.backend.JSON(http.MethodGet, apiclient.OrdersPath, http.StatusOK, map[string]any{
		"count":   1,
		"results": []any{map[string]any{"id": 1, "order_number": "ORD-1", "status": "pending"}},
	})

	require.NoError(t, f.run(t, "orders", "--status", "pending", "--page", "2", "-q", "results[].order_number"))

	assert.Equal(t, "[\n  \"ORD-1\"\n]\n", f.out.String())
	query := f.backend.Calls(http.MethodGet, apiclient.OrdersPath)[0].Query
	assert.Contains(t, query, "status=pending")
	assert.Contains(t, query, "page=2")
}

func TestOrdersCreate_ShipsToDefaultAddressWithCoupon(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})
	f.signedIn()
	f.backend.JSON(http.MethodGet, apiclient.ShippingAddressesPath, http.StatusOK, []any{
		map[string]any{"id": 4, "full_name": "Alice", "is_default": false},
		map[string]any{"id": 7, "full_name": "Alice", "is_default": true},
	})
	f.backend.JSON(http.MethodPost, apiclient.CouponValidatePath, http.StatusOK, map[string]any{"valid": true, "discount_amount": "5.00"})
	f.backend.JSON(http.MethodPost, apiclient.OrderCreatePath, http.StatusCreated, map[string]any{
		"message": "Order created",
		"order":   map[string]any{"id": 1, "order_number": "ORD-9", "status": "pending"},
	})

	require.NoError(t, f.run(t, "orders", "create", "--payment", "paypal", "--coupon", "SAVE5", "-q", "order_number"))

	assert.Equal(t, "\"ORD-9\"\n", f.out.String())
	assert.JSONEq(t, `{"shipping_address_id":7,"payment_method":"paypal","coupon_code":"SAVE5"}`,
		string(f.backend.Calls(http.MethodPost, apiclient.OrderCreatePath)[0].Body))
}

func TestOrdersCreate_RejectedCouponSendsNoOrder(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})
	f.signedIn()
	f.backend.JSON(http.MethodPost, apiclient.CouponValidatePath, http.StatusBadRequest, map[string]any{"code": []string{"This coupon is not valid or has expired"}})

	err := f.run(t, "orders", "create", "--address", "4", "--coupon", "OLD")

	require.Error(t, err)
	assert.Zero(t, f.backend.Count(http.MethodPost, apiclient.OrderCreatePath))
	assert.Zero(t, f.backend.Count(http.MethodGet, apiclient.ShippingAddressesPath))
}

func TestAddressesAdd_SendsDefaultFlag(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})
	f.signedIn()
	f.backend.JSON(http.MethodPost, apiclient.ShippingAddressCreatePath, http.StatusCreated, map[string]any{"id": 3, "full_name": "Alice", "is_default": true})

	require.NoError(t, f.run(t, "addresses", "add", "--name", "Alice", "--phone", "555", "--line1", "1 Main St",
		"--city", "Springfield", "--state", "IL", "--postal-code", "62701", "--default", "-q", "id"))

	assert.Equal(t, "3\n", f.out.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(f.backend.Calls(http.MethodPost, apiclient.ShippingAddressCreatePath)[0].Body, &body))
	assert.Equal(t, true, body["is_default"])
	assert.Equal(t, "62701", body["postal_code"])
}

func TestPay_PostsToOrderPayment(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})
	f.signedIn()
	f.backend.JSON(http.MethodPost, apiclient.PaymentCreatePath("ORD-9"), http.StatusOK, map[string]any{
		"message": "Payment processed successfully",
		"payment": map[string]any{"id": 1, "payment_id": "PAY-1", "status": "completed"},
	})

	require.NoError(t, f.run(t, "pay", "ORD-9", "-q", "payment.status"))

	assert.Equal(t, "\"completed\"\n", f.out.String())
}

func TestProducts_WorksSignedOut(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})
	f.backend.JSON(http.MethodGet, apiclient.ProductsPath, http.StatusOK, map[string]any{
		"count": 1, "results": []any{map[string]any{"id": 1, "name": "Boot", "slug": "boot"}},
	})

	require.NoError(t, f.run(t, "products", "--category", "shoes", "--in-stock", "-q", "results[0].slug"))

	assert.Equal(t, "\"boot\"\n", f.out.String())
	call := f.backend.Calls(http.MethodGet, apiclient.ProductsPath)[0]
	assert.Equal(t, "category__slug=shoes&in_stock=true&ordering=-created_at", call.Query)
	assert.Empty(t, call.Bearer())
}

func TestReviewsAdd_RequiresSession(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})

	err := f.run(t, "reviews", "add", "boot", "--rating", "5", "--comment", "Great")

	require.Error(t, err)
	assert.Zero(t, f.backend.Total())
}

func TestReviewsAdd_ValidatesRating(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})
	f.signedIn()

	err := f.run(t, "reviews", "add", "boot", "--rating", "9", "--comment", "Great")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "less than or equal to 5")
	assert.Zero(t, f.backend.Count(http.MethodPost, apiclient.ReviewCreatePath("boot")))
}

func TestRequestFailure_NotifiesOnce(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})
	f.signedIn()
	f.backend.JSON(http.MethodGet, apiclient.WishlistPath, http.StatusInternalServerError, map[string]string{"detail": "boom"})

	err := f.run(t, "wishlist")
	require.Error(t, err)
	f.app.report(err)

	assert.Equal(t, 1, strings.Count(f.errOut.String(), "error: "))
	assert.NotContains(t, f.errOut.String(), "storefront: ", "already reported by the notifier")
}

func TestReport_PrintsLocalFailures(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})

	err := f.run(t, "whoami")
	require.Error(t, err)
	f.app.report(err)

	assert.Equal(t, "storefront: not signed in; run `storefront login` first\n", f.errOut.String())
}

func TestUpload_ReportsProgress(t *testing.T) {
	f := newCLIFixture(t, domainauth.Credentials{})
	f.signedIn()
	f.backend.JSON(http.MethodPost, apiclient.UploadImagePath, http.StatusCreated, map[string]any{"url": "https://cdn.example.com/a.png"})

	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(path, []byte("not really a png"), 0o600))

	require.NoError(t, f.run(t, "upload", path, "-q", "url"))

	assert.Equal(t, "\"https://cdn.example.com/a.png\"\n", f.out.String())
	assert.Contains(t, f.errOut.String(), "100%")
}

func TestApplyQuery(t *testing.T) {
	user := &domainauth.User{ID: 1, Username: "alice", FirstName: "Alice"}

	got, err := applyQuery("", user)
	require.NoError(t, err)
	assert.Same(t, user, got)

	got, err = applyQuery("first_name", user)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got)

	_, err = applyQuery("[[", user)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --query")
}
