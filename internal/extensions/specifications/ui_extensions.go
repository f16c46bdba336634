package specifications

import (
	"context"

	"github.com/appforge-dev/appforge/internal/extensions"
)

func uiDeployConfig(_ context.Context, config extensions.Configuration, _ string) (map[string]any, error) {
	return extensions.Compact(uiPayload(config)), nil
}

// CheckoutPostPurchase renders between checkout and the thank-you page.
var CheckoutPostPurchase = extensions.MustNewSpec(extensions.Descriptor{
	Identifier:   "checkout_post_purchase",
	ExternalName: "Post-purchase UI",
	Category:     extensions.CategoryUI,
	Surface:      extensions.SurfacePostPurchase,
	Dependency:   &extensions.Dependency{Name: "@appforge/post-purchase-ui-extensions-react", Version: "^0.13.2"},
	Schema:       extensions.BaseExtensionSchema,
	DeployConfig: uiDeployConfig,
})

// ProductSubscription renders in the admin product page.
var ProductSubscription = extensions.MustNewSpec(extensions.Descriptor{
	Identifier:         "product_subscription",
	ExternalIdentifier: "subscription_ui",
	ExternalName:       "Subscription UI",
	GraphQLType:        "subscription_management",
	Category:           extensions.CategoryUI,
	Surface:            extensions.SurfaceAdmin,
	Dependency:         &extensions.Dependency{Name: "@appforge/admin-ui-extensions-react", Version: "^1.0.1"},
	PartnersWebID:      "product_subscription",
	Schema:             extensions.BaseExtensionSchema,
	DeployConfig:       uiDeployConfig,
})

// POSUIExtension renders inside the point of sale app.
var POSUIExtension = extensions.MustNewSpec(extensions.Descriptor{
	Identifier:         "pos_ui_extension",
	ExternalIdentifier: "pos_ui",
	ExternalName:       "POS UI",
	Category:           extensions.CategoryUI,
	Surface:            extensions.SurfacePOS,
	Dependency:         &extensions.Dependency{Name: "@appforge/retail-ui-extensions-react", Version: "^0.19.0"},
	Schema:             extensions.BaseExtensionSchema,
	DeployConfig:       uiDeployConfig,
})

// CustomerAccountsUIExtension renders inside customer account pages.
var CustomerAccountsUIExtension = extensions.MustNewSpec(extensions.Descriptor{
	Identifier:         "customer_accounts_ui_extension",
	ExternalIdentifier: "customer_accounts_ui",
	ExternalName:       "Customer Accounts",
	Category:           extensions.CategoryUI,
	Surface:            extensions.SurfaceCustomerAccounts,
	Dependency:         &extensions.Dependency{Name: "@appforge/customer-account-ui-extensions-react", Version: "^0.0.20"},
	Schema:             extensions.BaseExtensionSchema,
	DeployConfig:       uiDeployConfig,
})
