//go:build integration

package integration_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // HOME, contains .appforge/config.yaml
	ProjectDir string // a complete app project
}

// setupTestEnv creates isolated temp directories and points HOME at one of
// them so user settings are sandboxed.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	return env
}

// configPath returns the sandboxed user config file.
func (e *testEnv) configPath() string {
	return filepath.Join(e.HomeDir, ".appforge", "config.yaml")
}

// setupProject writes an app with one extension of every category, a web
// process, locales, function metadata and a dotenv file.
func setupProject(t *testing.T, dir string) {
	t.Helper()

	writeFile(t, filepath.Join(dir, "appforge.app.toml"), `name = "integration-shop"
client_id = "client-123"
scopes = "write_products,read_orders"
`)
	writeFile(t, filepath.Join(dir, "package.json"), `{
  "name": "integration-shop",
  "private": true,
  "workspaces": ["extensions/*", "web"],
  "dependencies": {
    "@appforge/checkout-ui-extensions-react": "^0.20.3",
    "@appforge/admin-ui-extensions-react": "^0.9.0"
  }
}`)
	writeFile(t, filepath.Join(dir, "pnpm-lock.yaml"), "lockfileVersion: '6.0'\n")
	writeFile(t, filepath.Join(dir, ".env"), "APPFORGE_API_KEY=key-123\nAPPFORGE_CHECKOUT_UPSELL_ID=ext-1\n")

	// --- Checkout UI extension with locales ---
	writeFile(t, filepath.Join(dir, "extensions/checkout-upsell/appforge.ui.extension.toml"), `name = "Checkout Upsell"
type = "checkout_ui_extension"
extension_points = ["Checkout::Dynamic::Render"]

[capabilities]
network_access = true

[[metafields]]
namespace = "upsell"
key = "product"
`)
	writeFile(t, filepath.Join(dir, "extensions/checkout-upsell/src/index.jsx"), "export default function App() {}\n")
	writeFile(t, filepath.Join(dir, "extensions/checkout-upsell/locales/en.default.json"), `{"title":"Add to order"}`)
	writeFile(t, filepath.Join(dir, "extensions/checkout-upsell/locales/fr.json"), `{"title":"Ajouter"}`)

	// --- Subscription UI extension declared in YAML ---
	writeFile(t, filepath.Join(dir, "extensions/subscriptions/appforge.ui.extension.yaml"), `name: Subscriptions
type: product_subscription
`)

	// --- Theme app extension ---
	writeFile(t, filepath.Join(dir, "extensions/storefront-theme/appforge.theme.extension.toml"), `name = "Storefront Theme"
type = "theme"
`)

	// --- Function extension ---
	writeFile(t, filepath.Join(dir, "extensions/volume-discount/appforge.function.extension.toml"), `name = "Volume Discount"
type = "order_discounts"
description = "Discounts large orders"
api_version = "2023-01"

[build]
command = "cargo wasi build --release"
path = "target/wasm32-wasi/release/volume-discount.wasm"

[ui.paths]
create = "/"
details = "/:id"
`)
	writeFile(t, filepath.Join(dir, "extensions/volume-discount/metadata.json"), `{"schemaVersions":{"order_discounts":{"major":1,"minor":0}}}`)

	// --- Web ---
	writeFile(t, filepath.Join(dir, "web/appforge.web.toml"), `type = "backend"

[commands]
dev = "npm run dev"
build = "npm run build"
`)
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertBase64JSON fails unless encoded is the base64 form of a JSON document
// containing substr.
func assertBase64JSON(t *testing.T, encoded any, substr string) {
	t.Helper()
	s, ok := encoded.(string)
	if !ok {
		t.Errorf("translation is %T, want base64 string", encoded)
		return
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Errorf("decoding translation: %v", err)
		return
	}
	if !strings.Contains(string(raw), substr) {
		t.Errorf("translation %s does not contain %q", raw, substr)
	}
}
