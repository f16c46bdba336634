package specifications

import (
	"context"

	"github.com/appforge-dev/appforge/internal/extensions"
	"github.com/appforge-dev/appforge/internal/schema"
)

// UIExtensionSchema is the target/module based checkout schema.
var UIExtensionSchema = extensions.BaseExtensionSchema.Extend(schema.Fields{
	"name":            schema.String(),
	"type":            schema.Default(schema.Literal("ui_extension"), "ui_extension"),
	"extensionPoints": extensions.NewExtensionPointsSchema,
	"settings":        schema.Optional(schema.String()),
})

// CheckoutUIExtensionBeta is the preview of target based checkout extensions.
var CheckoutUIExtensionBeta = extensions.MustNewSpec(extensions.Descriptor{
	Identifier:         "checkout_ui_extension_beta",
	ExternalIdentifier: "checkout_ui_beta",
	ExternalName:       "Checkout UI Beta",
	Category:           extensions.CategoryUI,
	Surface:            extensions.SurfaceCheckout,
	Dependency:         checkoutDependency,
	PartnersWebID:      "ui_extension",
	Schema:             UIExtensionSchema,
	DeployConfig: func(_ context.Context, config extensions.Configuration, directory string) (map[string]any, error) {
		payload := uiPayload(config)
		copyKey(payload, "settings", config, "settings")

		localization, err := extensions.LoadLocalesConfig(directory, config.Name())
		if err != nil {
			return nil, err
		}
		payload["localization"] = localization
		return extensions.Compact(payload), nil
	},
})
