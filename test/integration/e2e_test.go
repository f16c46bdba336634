//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/appforge-dev/appforge/internal/app"
	"github.com/appforge-dev/appforge/internal/cli"
	"github.com/appforge-dev/appforge/internal/extensions"
	"github.com/appforge-dev/appforge/internal/loader"
	"github.com/appforge-dev/appforge/internal/partners"
	"github.com/appforge-dev/appforge/internal/registry"
)

// TestFullFlowLoadAndDeploy tests the complete flow:
// write project -> load app -> verify model -> render every deploy payload.
func TestFullFlowLoadAndDeploy(t *testing.T) {
	env := setupTestEnv(t)
	setupProject(t, env.ProjectDir)
	ctx := context.Background()

	// Step 1: Load the app.
	a, err := loader.Load(ctx, loader.Options{Directory: env.ProjectDir})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !a.Errors().IsEmpty() {
		t.Fatalf("unexpected load errors:\n%s", a.Errors())
	}

	// Step 2: Verify the aggregate.
	if a.Name() != "integration-shop" || a.PackageManager() != "pnpm" || !a.UsesWorkspaces() {
		t.Errorf("app = %s/%s/workspaces=%v", a.Name(), a.PackageManager(), a.UsesWorkspaces())
	}
	var ids []string
	for _, e := range a.AllExtensions() {
		ids = append(ids, e.LocalIdentifier())
	}
	want := []string{"checkout-upsell", "subscriptions", "storefront-theme", "volume-discount"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("extensions mismatch (-want +got):\n%s", diff)
	}
	if len(a.Webs()) != 1 {
		t.Errorf("Webs() = %d entries, want 1", len(a.Webs()))
	}
	checkout, _ := a.ExtensionByID("checkout-upsell")
	if got := a.Dotenv().Variables[checkout.IDEnvironmentVariableName()]; got != "ext-1" {
		t.Errorf("dotenv %s = %q, want ext-1", checkout.IDEnvironmentVariableName(), got)
	}

	// Step 3: Checkout payload carries capabilities, metafields and locales.
	payload, err := checkout.DeployConfig(ctx)
	if err != nil {
		t.Fatalf("checkout DeployConfig: %v", err)
	}
	if payload["capabilities"] == nil || payload["metafields"] == nil {
		t.Errorf("checkout payload missing capabilities or metafields: %v", payload)
	}
	localization, ok := payload["localization"].(map[string]any)
	if !ok || localization["default_locale"] != "en" {
		t.Fatalf("localization = %v", payload["localization"])
	}
	translations := localization["translations"].(map[string]any)
	assertBase64JSON(t, translations["en"], "Add to order")
	assertBase64JSON(t, translations["fr"], "Ajouter")

	// Step 4: Function payload and paths.
	fn := a.FunctionExtensions()[0]
	payload, err = fn.DeployConfig(ctx)
	if err != nil {
		t.Fatalf("function DeployConfig: %v", err)
	}
	wantFn := map[string]any{
		"title":              "Volume Discount",
		"description":        "Discounts large orders",
		"api_type":           "order_discounts",
		"api_version":        "2023-01",
		"enable_creation_ui": true,
		"ui_paths":           map[string]any{"create": "/", "details": "/:id"},
	}
	if diff := cmp.Diff(wantFn, payload); diff != "" {
		t.Errorf("function payload mismatch (-want +got):\n%s", diff)
	}
	if got, want := fn.BuildWasmPath(), filepath.Join(env.ProjectDir, "extensions/volume-discount/target/wasm32-wasi/release/volume-discount.wasm"); got != want {
		t.Errorf("BuildWasmPath() = %q, want %q", got, want)
	}

	// Step 5: Publish URL uses the partners web ID.
	url, err := checkout.PublishURL(ctx, extensions.PublishURLOptions{OrganizationID: "1", AppID: "2", ExtensionID: "3"})
	if err != nil {
		t.Fatalf("PublishURL: %v", err)
	}
	if want := "https://partners.appforge.dev/1/apps/2/extensions/checkout_ui_extension/3"; url != want {
		t.Errorf("PublishURL() = %q, want %q", url, want)
	}
}

// TestRemoteCatalogMergedOnce loads the project against a fake partners API
// and checks that remote metadata is merged with a single fetch.
func TestRemoteCatalogMergedOnce(t *testing.T) {
	env := setupTestEnv(t)
	setupProject(t, env.ProjectDir)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"extensionSpecifications":[
			{"identifier":"checkout_ui_extension","externalIdentifier":"checkout_ui_v2","externalName":"Checkout UI v2","graphQLType":"CHECKOUT_UI_EXTENSION","surface":"checkout"}
		]}}`))
	}))
	t.Cleanup(srv.Close)

	client := partners.New(partners.Options{BaseURL: srv.URL, Token: "secret"})
	set, err := registry.Default(registry.WithRemoteCatalog(client))
	if err != nil {
		t.Fatalf("registry.Default: %v", err)
	}

	a, err := loader.Load(context.Background(), loader.Options{Directory: env.ProjectDir, Registries: set})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	checkout, _ := a.ExtensionByID("checkout-upsell")
	spec := checkout.Specification()
	if !spec.IsRemote() || spec.GraphQLType() != "CHECKOUT_UI_EXTENSION" || spec.ExternalIdentifier() != "checkout_ui_v2" {
		t.Errorf("checkout spec not merged: remote=%v graphql=%q", spec.IsRemote(), spec.GraphQLType())
	}
	if checkout.RemoteSpecification() == nil {
		t.Error("RemoteSpecification() = nil, want the catalog entry")
	}
	theme := a.ThemeExtensions()[0]
	if theme.Specification().IsRemote() {
		t.Error("theme spec marked remote without a catalog entry")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("catalog fetched %d times, want 1", got)
	}
}

// TestRemoteCatalogUnauthorized keeps local specifications when the token is rejected.
func TestRemoteCatalogUnauthorized(t *testing.T) {
	env := setupTestEnv(t)
	setupProject(t, env.ProjectDir)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	set, err := registry.Default(registry.WithRemoteCatalog(partners.New(partners.Options{BaseURL: srv.URL})))
	if err != nil {
		t.Fatalf("registry.Default: %v", err)
	}
	a, err := loader.Load(context.Background(), loader.Options{Directory: env.ProjectDir, Registries: set})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(a.AllExtensions()) != 4 {
		t.Errorf("AllExtensions() = %d, want 4 local extensions", len(a.AllExtensions()))
	}
	var lookupErr *app.SpecificationLookupError
	if !errors.As(a.Errors().Err(), &lookupErr) || !errors.Is(lookupErr, partners.ErrUnauthorized) {
		t.Errorf("errors = %v, want an unauthorized lookup error", a.Errors().Err())
	}
}

// TestCLIAppInfo drives the binary's command tree against the project.
func TestCLIAppInfo(t *testing.T) {
	env := setupTestEnv(t)
	setupProject(t, env.ProjectDir)

	var out bytes.Buffer
	root := cli.NewRootCommand(cli.BuildInfo{Version: "test"})
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", env.configPath(), "app", "info", env.ProjectDir, "--json", "--strict"})
	if err := root.Execute(); err != nil {
		t.Fatalf("app info: %v", err)
	}

	var info struct {
		Name       string `json:"name"`
		Extensions []struct {
			Type string `json:"type"`
		} `json:"extensions"`
	}
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	var types []string
	for _, e := range info.Extensions {
		types = append(types, e.Type)
	}
	want := []string{"checkout_ui_extension", "product_subscription", "theme", "order_discounts"}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}
}
