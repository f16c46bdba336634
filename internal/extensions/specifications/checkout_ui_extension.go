package specifications

import (
	"context"

	"github.com/appforge-dev/appforge/internal/extensions"
	"github.com/appforge-dev/appforge/internal/schema"
)

var checkoutDependency = &extensions.Dependency{Name: "@appforge/checkout-ui-extensions-react", Version: "^0.20.0"}

// CheckoutSchema accepts only the list-of-strings extension point format.
var CheckoutSchema = extensions.BaseExtensionSchema.Extend(schema.Fields{
	"extensionPoints": extensions.OldExtensionPointsSchema,
	"settings":        schema.Optional(schema.String()),
})

// CheckoutUIExtension renders inside checkout.
var CheckoutUIExtension = extensions.MustNewSpec(extensions.Descriptor{
	Identifier:         "checkout_ui_extension",
	ExternalIdentifier: "checkout_ui",
	ExternalName:       "Checkout UI",
	Category:           extensions.CategoryUI,
	Surface:            extensions.SurfaceCheckout,
	Dependency:         checkoutDependency,
	PartnersWebID:      "checkout_ui_extension",
	Schema:             CheckoutSchema,
	DeployConfig: func(_ context.Context, config extensions.Configuration, directory string) (map[string]any, error) {
		payload := uiPayload(config)
		copyKey(payload, "settings", config, "settings")

		localization, err := extensions.LoadLocalesConfig(directory, "checkout_ui")
		if err != nil {
			return nil, err
		}
		payload["localization"] = localization
		return extensions.Compact(payload), nil
	},
})
